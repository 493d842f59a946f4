package request

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// UploadedFiles поле формы с файлами профиля.
const UploadedFiles = "uploaded_files"

const maxMemory = 32 << 20

// ProfileInput читает описания и файлы профиля из multipart-формы или JSON.
// Набор файлов заменяется, только если в форме передано поле uploaded_files.
func ProfileInput(r *http.Request) (models.ProfileInput, error) {
	var in models.ProfileInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return in, Decode(r, &in)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return in, apperr.Validation("detail", "Multipart form parse error - "+err.Error())
	}
	form := r.MultipartForm
	if v, ok := form.Value["description_ru"]; ok && len(v) > 0 {
		in.DescriptionRU = &v[0]
	}
	if v, ok := form.Value["description_en"]; ok && len(v) > 0 {
		in.DescriptionEN = &v[0]
	}

	headers, ok := form.File[UploadedFiles]
	in.ReplaceFiles = ok
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return in, fmt.Errorf("request.ProfileInput: %w", err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return in, fmt.Errorf("request.ProfileInput: %w", err)
		}
		in.Files = append(in.Files, models.Upload{Name: fh.Filename, Size: fh.Size, Data: data})
	}
	return in, nil
}
