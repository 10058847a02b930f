package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pq.Error{Code: "23505"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain error", errors.New("connection refused"), false},
		{"unique violation", uniqueErr, true},
		{"wrapped unique violation", fmt.Errorf("create user: %w", uniqueErr), true},
		{"doubly wrapped unique violation", fmt.Errorf("register: %w", fmt.Errorf("create user: %w", uniqueErr)), true},
		{"other pq error", &pq.Error{Code: "23503"}, false},
		{"wrapped other pq error", fmt.Errorf("create user: %w", &pq.Error{Code: "42P01"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}
