package filemgr

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"vendora/globals"
	"vendora/middleware"
	"vendora/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

// The upload boundary is deliberately thin: store bytes under a kind
// directory, hand back a URL. Everything else about media belongs to
// whoever serves it.

var allowedKinds = map[string]bool{
	"product": true,
	"store":   true,
	"user":    true,
	"return":  true,
}

func uploadRoot() string {
	return globals.Getenv("UPLOAD_DIR", "static/uploads")
}

// Upload accepts one multipart image under field "file" and returns
// its public URL plus a 200px thumbnail URL.
func Upload(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := middleware.GetPrincipal(r); !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	kind := ps.ByName("kind")
	if !allowedKinds[kind] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported upload kind")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	dir := filepath.Join(uploadRoot(), kind)
	if err := utils.EnsureDir(dir); err != nil {
		log.Println("Upload EnsureDir error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), utils.GetUUID()[:8], filepath.Ext(header.Filename))
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst)
	if err != nil {
		log.Println("Upload create error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		log.Println("Upload copy error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	out.Close()

	thumbURL := ""
	if thumbName, err := writeThumbnail(dst, dir, name); err != nil {
		log.Println("Upload thumbnail error:", err)
	} else {
		thumbURL = "/" + filepath.ToSlash(filepath.Join(uploadRoot(), kind, thumbName))
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"url":      "/" + filepath.ToSlash(filepath.Join(uploadRoot(), kind, name)),
		"thumbUrl": thumbURL,
	})
}

func writeThumbnail(src, dir, name string) (string, error) {
	img, err := imaging.Open(src)
	if err != nil {
		return "", err
	}
	thumb := imaging.Resize(img, 200, 0, imaging.Lanczos)
	thumbName := "thumb_" + name
	if err := imaging.Save(thumb, filepath.Join(dir, thumbName)); err != nil {
		return "", err
	}
	return thumbName, nil
}
