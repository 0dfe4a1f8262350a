// filepath: internal/repository/housekeeping_repo.go
package repository

import "fmt"

// GetReferencedFilePaths returns the set of stored file paths referenced by
// any book cover, book page or kid avatar. Housekeeping treats everything
// else in the upload directory as orphaned.
func (s *Repository) GetReferencedFilePaths() (map[string]struct{}, error) {
	query := `
		SELECT cover_image FROM books WHERE cover_image <> ''
		UNION
		SELECT image_path FROM book_pages
		UNION
		SELECT avatar FROM kids_profiles WHERE avatar IS NOT NULL AND avatar <> ''
	`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query referenced files: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths[p] = struct{}{}
	}
	return paths, rows.Err()
}
