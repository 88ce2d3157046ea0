package service

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/user-directory/pkg/util/errorutil"
)

func TestDecodeListUsers(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    ListUsersRequest
		wantErr bool
	}{
		{name: "nil payload", payload: nil, wantErr: true},
		{name: "typed nil map", payload: map[string]any(nil), wantErr: true},
		{name: "string payload", payload: "size=1", wantErr: true},
		{name: "slice payload", payload: []any{0, 10}, wantErr: true},
		{name: "missing size", payload: map[string]any{"limit": 10}, wantErr: true},
		{name: "missing limit", payload: map[string]any{"size": 0}, wantErr: true},
		{name: "negative size", payload: map[string]any{"size": -1, "limit": 10}, wantErr: true},
		{name: "zero limit", payload: map[string]any{"size": 0, "limit": 0}, wantErr: true},
		{name: "negative limit", payload: map[string]any{"size": 0, "limit": -5}, wantErr: true},
		{name: "fractional limit", payload: map[string]any{"size": 0, "limit": 2.5}, wantErr: true},
		{name: "string size", payload: map[string]any{"size": "0", "limit": 10}, wantErr: true},
		{name: "overflowing offset", payload: map[string]any{"size": int64(math.MaxInt64), "limit": 2}, wantErr: true},
		{
			name:    "ints",
			payload: map[string]any{"size": 2, "limit": 10},
			want:    ListUsersRequest{Page: 2, Limit: 10},
		},
		{
			name:    "json floats",
			payload: map[string]any{"size": float64(0), "limit": float64(25)},
			want:    ListUsersRequest{Page: 0, Limit: 25},
		},
		{
			name:    "json numbers",
			payload: map[string]any{"size": json.Number("3"), "limit": json.Number("7")},
			want:    ListUsersRequest{Page: 3, Limit: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeListUsers(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListUsersRequest_Offset(t *testing.T) {
	assert.Equal(t, int64(0), ListUsersRequest{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, int64(30), ListUsersRequest{Page: 3, Limit: 10}.Offset())
}

func TestDecodeCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    CreateUserRequest
		wantErr bool
	}{
		{name: "nil payload", payload: nil, wantErr: true},
		{name: "number payload", payload: 42, wantErr: true},
		{name: "missing email", payload: map[string]any{"name": "Alice"}, wantErr: true},
		{name: "numeric name", payload: map[string]any{"name": 1, "email": "a@x.com"}, wantErr: true},
		{name: "empty name", payload: map[string]any{"name": "", "email": "a@x.com"}, wantErr: true},
		{
			name:    "valid",
			payload: map[string]any{"name": "Alice", "email": "a@x.com"},
			want:    CreateUserRequest{Name: "Alice", Email: "a@x.com"},
		},
		{
			name:    "empty email accepted",
			payload: map[string]any{"name": "Alice", "email": ""},
			want:    CreateUserRequest{Name: "Alice", Email: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCreateUser(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeUpdateUser(t *testing.T) {
	t.Run("id required", func(t *testing.T) {
		_, err := DecodeUpdateUser(map[string]any{"name": "Bob"})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("id must be a string", func(t *testing.T) {
		_, err := DecodeUpdateUser(map[string]any{"id": 12})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("non-string optional field", func(t *testing.T) {
		_, err := DecodeUpdateUser(map[string]any{"id": "u1", "email": true})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("optional fields absent", func(t *testing.T) {
		got, err := DecodeUpdateUser(map[string]any{"id": "u1"})
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
		assert.Nil(t, got.Name)
		assert.Nil(t, got.Email)
	})

	t.Run("optional fields present", func(t *testing.T) {
		got, err := DecodeUpdateUser(map[string]any{"id": "u1", "name": "", "email": "new@x.com"})
		require.NoError(t, err)
		require.NotNil(t, got.Name)
		require.NotNil(t, got.Email)
		assert.Equal(t, "", *got.Name)
		assert.Equal(t, "new@x.com", *got.Email)
	})
}

func TestDecodeArchiveUser(t *testing.T) {
	_, err := DecodeArchiveUser(nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = DecodeArchiveUser(map[string]any{"id": nil})
	assert.True(t, apperrors.IsValidation(err))

	got, err := DecodeArchiveUser(map[string]any{"id": "u1"})
	require.NoError(t, err)
	assert.Equal(t, ArchiveUserRequest{ID: "u1"}, got)
}
