package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffline(t *testing.T) {
	var gw Gateway = Offline{}
	ctx := context.Background()

	products := gw.FetchTrends(ctx)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	_, err := gw.AnalyzeNiche(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyNiche)

	_, err = gw.AnalyzeNiche(ctx, "pets")
	assert.ErrorIs(t, err, ErrUnavailable)
}
