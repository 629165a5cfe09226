package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/utils/logging"
)

// Delete removes a memory from its modality's index. Returns
// model.ErrNotFound when no memory with the given ID exists there.
func (u *UseCase) Delete(ctx context.Context, id model.MemoryID, modality model.Modality) error {
	if err := modality.Validate(); err != nil {
		return goerr.Wrap(err, "cannot delete memory", goerr.V("modality", modality))
	}

	if err := u.indexes[modality].Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V("id", id), goerr.V("modality", modality))
	}

	logging.From(ctx).Info("deleted memory", "id", id, "modality", modality)
	return nil
}
