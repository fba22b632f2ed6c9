package blog

import (
	"context"
	"errors"
	"strings"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

func (m *Manager) ListTypes(ctx context.Context) ([]Type, error) {
	types, err := m.types.ListTypes(ctx)
	if err != nil {
		return nil, apperror.StorageUnavailable(err)
	}
	if types == nil {
		types = []Type{}
	}
	return types, nil
}

func (m *Manager) CreateType(ctx context.Context, creator, name, image string) (*Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if strings.EqualFold(name, "all") {
		return nil, apperror.Validation(`"all" is reserved`)
	}
	t := &Type{
		Name:      name,
		Image:     strings.TrimSpace(image),
		CreatedBy: creator,
		CreatedAt: m.stamp(),
	}
	id, err := m.types.InsertType(ctx, t)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperror.Conflict("Type already exists")
	}
	if err != nil {
		return nil, apperror.StorageUnavailable(err)
	}
	t.ID = id
	m.log.Info().Str("type", name).Msg("type created")
	return t, nil
}

// RenameType renames the type and relabels every post carrying the old name.
// It returns the number of posts relabelled.
func (m *Manager) RenameType(ctx context.Context, oldName, newName string) (int64, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, apperror.Validation("new_type is required")
	}
	if strings.EqualFold(newName, "all") {
		return 0, apperror.Validation(`"all" is reserved`)
	}
	t, err := m.types.FindType(ctx, oldName)
	if errors.Is(err, store.ErrNotFound) {
		return 0, apperror.NotFound("Type not found")
	}
	if err != nil {
		return 0, apperror.StorageUnavailable(err)
	}
	if t.Name == newName {
		return 0, nil
	}

	err = m.types.RenameTypeEntity(ctx, t.ID, newName)
	if errors.Is(err, store.ErrDuplicate) {
		return 0, apperror.Conflict("Type already exists")
	}
	if err != nil {
		return 0, apperror.StorageUnavailable(err)
	}
	n, err := m.posts.RenameType(ctx, t.Name, newName)
	if err != nil {
		return 0, apperror.StorageUnavailable(err)
	}
	m.log.Info().Str("from", t.Name).Str("to", newName).Int64("posts", n).Msg("type renamed")
	return n, nil
}

// DeleteType removes a type looked up by id, or by name when the argument is
// not a known id. Posts carrying it lose their label.
func (m *Manager) DeleteType(ctx context.Context, idOrName string) error {
	idOrName = strings.TrimSpace(idOrName)
	t, err := m.types.GetTypeByID(ctx, idOrName)
	if errors.Is(err, store.ErrInvalidID) || errors.Is(err, store.ErrNotFound) {
		t, err = m.types.FindType(ctx, idOrName)
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Type not found")
	}
	if err != nil {
		return apperror.StorageUnavailable(err)
	}

	n, err := m.posts.ClearType(ctx, t.Name)
	if err != nil {
		return apperror.StorageUnavailable(err)
	}
	if err := m.types.DeleteType(ctx, t.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperror.StorageUnavailable(err)
	}
	m.log.Info().Str("type", t.Name).Int64("posts", n).Msg("type deleted")
	return nil
}
