package postgres

import (
	"context"
	"database/sql"

	"eventmanagement/internal/domain"
)

type rolePermissionRepository struct {
	DB *sql.DB
}

func NewRolePermissionRepository(db *sql.DB) domain.RolePermissionRepository {
	return &rolePermissionRepository{DB: db}
}

func (r *rolePermissionRepository) Grant(ctx context.Context, roleID, permission string) error {
	query := `
		INSERT INTO role_permissions (role_id, permission)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, roleID, permission)
	return err
}

func (r *rolePermissionRepository) Revoke(ctx context.Context, roleID, permission string) (bool, error) {
	query := `DELETE FROM role_permissions WHERE role_id = $1 AND permission = $2`
	result, err := r.DB.ExecContext(ctx, query, roleID, permission)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *rolePermissionRepository) ListByRoleID(ctx context.Context, roleID string) ([]string, error) {
	query := `
		SELECT permission
		FROM role_permissions
		WHERE role_id = $1
		ORDER BY permission ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	return permissions, rows.Err()
}

func (r *rolePermissionRepository) ListAll(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT r.code, rp.permission
		FROM roles r
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		ORDER BY r.code ASC, rp.permission ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matrix := make(map[string][]string)
	for rows.Next() {
		var code string
		var perm sql.NullString
		if err := rows.Scan(&code, &perm); err != nil {
			return nil, err
		}
		if _, ok := matrix[code]; !ok {
			matrix[code] = []string{}
		}
		if perm.Valid {
			matrix[code] = append(matrix[code], perm.String)
		}
	}
	return matrix, rows.Err()
}
