package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostViewJSON(t *testing.T) {
	p := &Post{
		ID:        3,
		Caption:   "sunset",
		Photo:     "sun.jpg",
		UserID:    7,
		CreatedOn: time.Date(2024, 4, 23, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(p.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"caption":"sunset","photo":"sun.jpg","user_id":7,"created_on":"2024-04-23T00:00:00Z"}`, string(data))
}

func TestFeedDateLayout(t *testing.T) {
	d := time.Date(2024, 4, 3, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "03 Apr 2024", d.Format(FeedDateLayout))
}
