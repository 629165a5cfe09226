package memory

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/adapter"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/utils/logging"
)

// AddText embeds a text memory and upserts it into the text index. The
// record ID is a hash of the text, so adding the same text twice updates
// the single existing entry.
func (u *UseCase) AddText(ctx context.Context, text string, meta map[string]string) (model.MemoryID, error) {
	if text == "" {
		return "", goerr.New("text memory is empty")
	}

	vec, err := u.embedders[model.ModalityText].EmbedText(ctx, text)
	if err != nil {
		return "", goerr.Wrap(err, "failed to embed text memory")
	}

	rec := model.MemoryRecord{
		ID:       model.NewMemoryID([]byte(text)),
		Modality: model.ModalityText,
		Content:  text,
		Metadata: meta,
	}

	if err := u.indexes[model.ModalityText].Upsert(ctx, rec, vec); err != nil {
		return "", goerr.Wrap(err, "failed to store text memory", goerr.V("id", rec.ID))
	}

	logging.From(ctx).Info("added text memory", "id", rec.ID, "chars", len(text))
	return rec.ID, nil
}

// AddImage embeds an image memory and upserts it into the image index.
// ref is a local file path or a gs:// URI; the stored record keeps the
// reference while the ID hashes the image bytes themselves.
func (u *UseCase) AddImage(ctx context.Context, ref string, meta map[string]string) (model.MemoryID, error) {
	data, err := u.readImage(ctx, ref)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", goerr.New("image memory is empty", goerr.V("ref", ref))
	}

	mimeType := http.DetectContentType(data)

	vec, err := u.embedders[model.ModalityImage].EmbedImage(ctx, data, mimeType)
	if err != nil {
		return "", goerr.Wrap(err, "failed to embed image memory", goerr.V("ref", ref))
	}

	rec := model.MemoryRecord{
		ID:       model.NewMemoryID(data),
		Modality: model.ModalityImage,
		Content:  ref,
		Metadata: meta,
	}

	if err := u.indexes[model.ModalityImage].Upsert(ctx, rec, vec); err != nil {
		return "", goerr.Wrap(err, "failed to store image memory", goerr.V("id", rec.ID))
	}

	logging.From(ctx).Info("added image memory", "id", rec.ID, "ref", ref, "mime_type", mimeType)
	return rec.ID, nil
}

func (u *UseCase) readImage(ctx context.Context, ref string) ([]byte, error) {
	if bucket, object, ok := adapter.ParseStorageRef(ref); ok {
		if u.storage == nil {
			return nil, goerr.New("storage is not configured for gs:// references", goerr.V("ref", ref))
		}
		if bucket != u.storage.Bucket() {
			return nil, goerr.New("image bucket does not match the configured bucket",
				goerr.V("ref", ref), goerr.V("configured", u.storage.Bucket()))
		}

		r, err := u.storage.Get(ctx, object)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch image from storage", goerr.V("ref", ref))
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read image from storage", goerr.V("ref", ref))
		}
		return data, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read image file", goerr.V("ref", ref))
	}
	return data, nil
}
