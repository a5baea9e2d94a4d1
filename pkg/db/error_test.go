package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "ux_api_keys_account_label" (SQLSTATE 23505)`), true},
		{"mysql", errors.New("Error 1062: Duplicate entry '42-ci' for key 'ux_api_keys_account_label'"), true},
		{"sqlite", errors.New("UNIQUE constraint failed: api_keys.account_id, api_keys.label"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKeyErr(tc.err))
		})
	}
}
