// filepath: internal/repository/kids_repo.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"hkids/internal/models"
)

// GetKidProfiles returns all profiles owned by one parent.
func (s *Repository) GetKidProfiles(parentID int64) ([]models.KidProfile, error) {
	query, args, err := s.Builder.Select("id", "parent_id", "name", "avatar", "age").
		From("kids_profiles").
		Where(squirrel.Eq{"parent_id": parentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query kid profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.KidProfile, 0)
	for rows.Next() {
		var p models.KidProfile
		if err := rows.Scan(&p.ID, &p.ParentID, &p.Name, &p.Avatar, &p.Age); err != nil {
			return nil, fmt.Errorf("failed to scan kid profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetKidProfile retrieves a single profile.
func (s *Repository) GetKidProfile(id int64) (*models.KidProfile, error) {
	var p models.KidProfile
	err := s.DB.QueryRow("SELECT id, parent_id, name, avatar, age FROM kids_profiles WHERE id = $1", id).
		Scan(&p.ID, &p.ParentID, &p.Name, &p.Avatar, &p.Age)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateKidProfile inserts a profile for a parent.
func (s *Repository) CreateKidProfile(p *models.KidProfile) (*models.KidProfile, error) {
	err := s.DB.QueryRow(
		"INSERT INTO kids_profiles (parent_id, name, avatar, age) VALUES ($1, $2, $3, $4) RETURNING id",
		p.ParentID, p.Name, p.Avatar, p.Age).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateKidProfile writes name, avatar and age.
func (s *Repository) UpdateKidProfile(p *models.KidProfile) error {
	res, err := s.DB.Exec(
		"UPDATE kids_profiles SET name = $1, avatar = $2, age = $3 WHERE id = $4",
		p.Name, p.Avatar, p.Age, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteKidProfile removes a profile; its approvals cascade.
func (s *Repository) DeleteKidProfile(id int64) error {
	res, err := s.DB.Exec("DELETE FROM kids_profiles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertApproval inserts or updates the approval flag for a
// (kid_profile_id, category_id) pair. Re-submitting the same pair updates
// approved and updated_at rather than duplicating.
func (s *Repository) UpsertApproval(a *models.ParentApproval) error {
	_, err := s.DB.Exec(`
		INSERT INTO parent_approvals (kid_profile_id, category_id, approved, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (kid_profile_id, category_id)
		DO UPDATE SET approved = EXCLUDED.approved, updated_at = now()`,
		a.KidProfileID, a.CategoryID, a.Approved)
	return err
}

// GetApprovals lists the approval rows for a kid profile.
func (s *Repository) GetApprovals(kidProfileID int64) ([]models.ParentApproval, error) {
	rows, err := s.DB.Query(
		"SELECT kid_profile_id, category_id, approved, updated_at FROM parent_approvals WHERE kid_profile_id = $1 ORDER BY category_id",
		kidProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}
	defer rows.Close()

	approvals := make([]models.ParentApproval, 0)
	for rows.Next() {
		var a models.ParentApproval
		if err := rows.Scan(&a.KidProfileID, &a.CategoryID, &a.Approved, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}
