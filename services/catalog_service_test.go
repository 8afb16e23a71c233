package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name       string
		count, sum int64
		want       float64
	}{
		{"no reviews", 0, 0, 5.0},
		{"single", 1, 3, 3.0},
		{"thirds round up", 3, 14, 4.7},
		{"thirds round down", 3, 13, 4.3},
		{"exact half", 2, 9, 4.5},
		{"half even at second decimal", 4, 9, 2.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AverageRating(tc.count, tc.sum))
		})
	}
}

func TestListDishes_Ratings(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	cat := f.category(t, "Sichuan")
	rated := f.dish(t, "Mapo Tofu", "18.80", cat)
	unrated := f.dish(t, "Plain Rice", "2.00", nil)
	f.review(t, u, rated, 5)
	f.review(t, u, rated, 4)
	f.review(t, u, rated, 5)

	svc := NewCatalogService(f.dishes, f.categories, f.reviews)
	dishes, err := svc.ListDishes(bg)
	require.NoError(t, err)
	require.Len(t, dishes, 2)

	byID := map[uint]DishSummary{}
	for _, d := range dishes {
		byID[d.ID] = d
	}
	assert.Equal(t, 4.7, byID[rated.ID].Rating)
	assert.EqualValues(t, 3, byID[rated.ID].ReviewCount)
	require.NotNil(t, byID[rated.ID].Category)
	assert.Equal(t, "Sichuan", byID[rated.ID].Category.Name)

	assert.Equal(t, 5.0, byID[unrated.ID].Rating)
	assert.Zero(t, byID[unrated.ID].ReviewCount)
	assert.Nil(t, byID[unrated.ID].Category)
}

func TestGetDish(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	d := f.dish(t, "Kung Pao Chicken", "28.80", nil)
	f.review(t, u, d, 2)
	f.review(t, u, d, 1)

	svc := NewCatalogService(f.dishes, f.categories, f.reviews)
	got, err := svc.GetDish(bg, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.AverageRating)
	assert.EqualValues(t, 2, got.ReviewCount)

	_, err = svc.GetDish(bg, d.ID+1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListReviews(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	d := f.dish(t, "Har Gow", "22.80", nil)
	f.review(t, u, d, 4)

	svc := NewCatalogService(f.dishes, f.categories, f.reviews)
	reviews, err := svc.ListReviews(bg, d.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0].User.Username)
	assert.Equal(t, 4, reviews[0].Rating)

	none, err := svc.ListReviews(bg, d.ID+42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
