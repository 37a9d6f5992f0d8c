package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// clientRepository implements the ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) repositories.ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts a new client
func (r *clientRepository) Create(ctx context.Context, client *entities.Client) error {
	if client.Slug == nil {
		slug := entities.Slugify(client.Name)
		client.Slug = &slug
	}
	err := r.db.WithContext(ctx).Create(client).Error
	return translateError(err, ucerrors.ErrClientNotFound)
}

// FindByID retrieves a client by its ID
func (r *clientRepository) FindByID(ctx context.Context, id int64) (*entities.Client, error) {
	var client entities.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrClientNotFound)
	}
	return &client, nil
}

// FindByName retrieves a client by canonical name, case-insensitively
func (r *clientRepository) FindByName(ctx context.Context, name string) (*entities.Client, error) {
	var client entities.Client
	err := r.db.WithContext(ctx).
		Where("lower(name) = lower(?)", strings.TrimSpace(name)).
		First(&client).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrClientNotFound)
	}
	return &client, nil
}

// GetOrCreate returns the named client, creating it when absent
func (r *clientRepository) GetOrCreate(ctx context.Context, name string) (*entities.Client, bool, error) {
	client, created, err := getOrCreateClient(r.db.WithContext(ctx), name)
	if err != nil {
		return nil, false, translateError(err, ucerrors.ErrClientNotFound)
	}
	return client, created, nil
}

// getOrCreateClient is shared with the archival transaction. A concurrent
// insert of the same name is absorbed by ON CONFLICT and the existing row is
// returned.
func getOrCreateClient(tx *gorm.DB, name string) (*entities.Client, bool, error) {
	name = strings.TrimSpace(name)
	res := tx.Exec(
		`INSERT INTO clients (name, slug) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		name, entities.Slugify(name),
	)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to insert client: %w", res.Error)
	}

	var client entities.Client
	if err := tx.Where("lower(name) = lower(?)", name).First(&client).Error; err != nil {
		return nil, false, err
	}
	return &client, res.RowsAffected > 0, nil
}

// List returns every client with its meeting count
func (r *clientRepository) List(ctx context.Context) ([]entities.ClientSummary, error) {
	var clients []entities.ClientSummary
	err := r.db.WithContext(ctx).
		Table("clients c").
		Select("c.id, c.name, COUNT(m.id) AS meeting_count, MAX(m.meeting_date) AS last_meeting").
		Joins("LEFT JOIN meetings m ON m.client_id = c.id").
		Group("c.id, c.name").
		Order("lower(c.name) ASC").
		Scan(&clients).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrClientNotFound)
	}
	return clients, nil
}

// Suggest returns clients whose name contains fragment
func (r *clientRepository) Suggest(ctx context.Context, fragment string, limit int) ([]entities.Client, error) {
	var clients []entities.Client
	pattern := "%" + escapeLike(strings.TrimSpace(fragment)) + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", pattern).
		Order("lower(name) ASC").
		Limit(limit).
		Find(&clients).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrClientNotFound)
	}
	return clients, nil
}

// All returns every client
func (r *clientRepository) All(ctx context.Context) ([]entities.Client, error) {
	var clients []entities.Client
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&clients).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrClientNotFound)
	}
	return clients, nil
}

// Delete removes a client; dependents follow the foreign key rules
func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&entities.Client{}, id)
	if res.Error != nil {
		return translateError(res.Error, ucerrors.ErrClientNotFound)
	}
	if res.RowsAffected == 0 {
		return ucerrors.ErrClientNotFound
	}
	return nil
}

// Merge moves everything owned by source onto target and deletes source.
// Integration links move only for kinds the target does not have yet.
func (r *clientRepository) Merge(ctx context.Context, source, target *entities.Client) (*repositories.MergeResult, error) {
	result := &repositories.MergeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`UPDATE meetings SET client_id = ? WHERE client_id = ?`, target.ID, source.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to move meetings: %w", res.Error)
		}
		result.MeetingsMoved = res.RowsAffected

		res = tx.Exec(`UPDATE client_context SET client_id = ?, updated_at = now() WHERE client_id = ?`, target.ID, source.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to move context documents: %w", res.Error)
		}
		result.ContextMoved = res.RowsAffected

		res = tx.Exec(`UPDATE meeting_series SET client_id = ? WHERE client_id = ?`, target.ID, source.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to move meeting series: %w", res.Error)
		}
		result.SeriesMoved = res.RowsAffected

		res = tx.Exec(`
			UPDATE client_integrations SET client_id = ?, updated_at = now()
			WHERE client_id = ?
			  AND integration_type NOT IN (
			      SELECT integration_type FROM client_integrations WHERE client_id = ?
			  )`, target.ID, source.ID, target.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to move integration links: %w", res.Error)
		}
		result.LinksMoved = res.RowsAffected

		res = tx.Exec(`DELETE FROM client_integrations WHERE client_id = ?`, source.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to drop shadowed integration links: %w", res.Error)
		}
		result.LinksDropped = res.RowsAffected

		res = tx.Exec(`UPDATE client_aliases SET client_id = ? WHERE client_id = ?`, target.ID, source.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to move aliases: %w", res.Error)
		}
		result.AliasesMoved = res.RowsAffected

		if err := upsertAlias(tx, source.Name, target.ID); err != nil {
			return err
		}

		if err := tx.Delete(&entities.Client{}, source.ID).Error; err != nil {
			return fmt.Errorf("failed to delete merged client: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err, ucerrors.ErrClientNotFound)
	}
	return result, nil
}

// Rename changes the canonical name and keeps the old name as an alias
func (r *clientRepository) Rename(ctx context.Context, client *entities.Client, newName string) error {
	newName = strings.TrimSpace(newName)
	oldName := client.Name

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// an alias equal to the new canonical name would shadow it
		if err := tx.Exec(
			`DELETE FROM client_aliases WHERE alias = ? AND client_id = ?`,
			entities.NormalizeAlias(newName), client.ID,
		).Error; err != nil {
			return fmt.Errorf("failed to clear alias: %w", err)
		}

		res := tx.Model(&entities.Client{}).
			Where("id = ?", client.ID).
			Updates(map[string]interface{}{
				"name":       newName,
				"updated_at": gorm.Expr("now()"),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to rename client: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ucerrors.ErrClientNotFound
		}

		if entities.NormalizeAlias(oldName) != entities.NormalizeAlias(newName) {
			return upsertAlias(tx, oldName, client.ID)
		}
		return nil
	})
	if err != nil {
		return translateError(err, ucerrors.ErrClientNotFound)
	}

	client.Name = newName
	return nil
}

func upsertAlias(tx *gorm.DB, alias string, clientID int64) error {
	err := tx.Exec(`
		INSERT INTO client_aliases (alias, client_id) VALUES (?, ?)
		ON CONFLICT (alias) DO UPDATE SET client_id = EXCLUDED.client_id`,
		entities.NormalizeAlias(alias), clientID,
	).Error
	if err != nil {
		return fmt.Errorf("failed to upsert alias: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
