package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)

	require.NotNil(t, repo)
	assert.Nil(t, repo.(*userRepository).pool)
}

func TestUserRepository_FindByIDRejectsMalformedIDs(t *testing.T) {
	// nil pool: a malformed id must be rejected before any query is issued.
	repo := NewUserRepository(nil)

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoUserRepository_FindByIDRejectsMalformedIDs(t *testing.T) {
	repo := NewMongoUserRepository(nil)

	_, err := repo.FindByID(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSortFieldMapping(t *testing.T) {
	tests := []struct {
		field     SortField
		wantSQL   string
		wantMongo string
		wantErr   bool
	}{
		{field: "", wantSQL: `name COLLATE "C"`, wantMongo: "name"},
		{field: SortByName, wantSQL: `name COLLATE "C"`, wantMongo: "name"},
		{field: SortByEmail, wantSQL: `email COLLATE "C"`, wantMongo: "email"},
		{field: SortByCreatedAt, wantSQL: "created_at", wantMongo: "createdAt"},
		{field: "name; DROP TABLE users", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			column, err := sqlSortColumn(tt.field)
			field, mongoErr := mongoSortField(tt.field)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, mongoErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mongoErr)
			assert.Equal(t, tt.wantSQL, column)
			assert.Equal(t, tt.wantMongo, field)
		})
	}
}

func TestFilters(t *testing.T) {
	assert.Equal(t, "WHERE archived_at IS NULL", sqlWhere(UserFilter{}))
	assert.Equal(t, "", sqlWhere(UserFilter{IncludeArchived: true}))

	assert.Equal(t, bson.M{"archivedAt": nil}, mongoFilter(UserFilter{}))
	assert.Equal(t, bson.M{}, mongoFilter(UserFilter{IncludeArchived: true}))
}
