package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/giftwheels/app/repositories"
	"github.com/shashiranjanraj/giftwheels/pkg/testkit"
)

func TestMessageRepository_SubmitAndList(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMessageRepository(testkit.NewDB(t))

	first, err := repo.Submit(ctx, " Ana ", "555-0101", "Do you ship the GT3 abroad?")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "Ana", first.Name)
	assert.False(t, first.Date.IsZero())

	second, err := repo.Submit(ctx, "Ben", "555-0102", "Restock of the 510?")
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
