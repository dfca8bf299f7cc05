package db

import (
	"context"
	"fmt"
	"strings"

	e "github.com/gartstein/zoo/internal/zoo/errors"
	"gorm.io/gorm"
)

func insert[M any](ctx context.Context, db *gorm.DB, op string, row *M) error {
	return wrap(op, db.WithContext(ctx).Create(row).Error)
}

func first[M any](ctx context.Context, db *gorm.DB, op string, id uint) (*M, error) {
	var row M
	if err := db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, wrap(op, err)
	}
	return &row, nil
}

func list[M any](ctx context.Context, db *gorm.DB, op string) ([]M, error) {
	var rows []M
	if err := db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap(op, err)
	}
	return rows, nil
}

// replace overwrites every column of the row with the given id.
func replace[M any](ctx context.Context, db *gorm.DB, op string, id uint, row *M) error {
	result := db.WithContext(ctx).Model(new(M)).
		Where("id = ?", id).
		Select("*").
		Omit("ID", "CreatedAt").
		Updates(row)
	if result.Error != nil {
		return wrap(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func remove[M any](ctx context.Context, db *gorm.DB, op string, id uint) error {
	result := db.WithContext(ctx).Delete(new(M), "id = ?", id)
	if result.Error != nil {
		return wrap(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func exists[M any](ctx context.Context, db *gorm.DB, op string, id uint) (bool, error) {
	var count int64
	result := db.WithContext(ctx).Model(new(M)).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	if result.Error != nil {
		return false, wrap(op, result.Error)
	}
	return count > 0, nil
}

func countWhere(ctx context.Context, db *gorm.DB, op string, model any, column string, id uint) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(model).
		Where(column+" = ?", id).
		Count(&count)
	if result.Error != nil {
		return 0, wrap(op, result.Error)
	}
	return count, nil
}

// matchAny restricts q to rows where any of the columns contains text,
// ignoring case in any script. LIKE wildcards in text are matched literally.
func matchAny(q *gorm.DB, text string, columns ...string) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	lower := lowerFunc(q)
	conds := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, c := range columns {
		conds = append(conds, fmt.Sprintf(`%s(%s) LIKE ? ESCAPE '\'`, lower, c))
		args = append(args, pattern)
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// blank reports whether a search text matches everything.
func blank(text string) bool {
	return strings.TrimSpace(text) == ""
}
