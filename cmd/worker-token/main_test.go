package main

import (
	"testing"
	"time"

	"github.com/maheshrc27/feedrail/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint(t *testing.T) {
	token, err := mint("signing-key", "post-1", time.Minute)
	require.NoError(t, err)

	claims, err := utils.ValidateWorkerToken("signing-key", token)
	require.NoError(t, err)
	assert.Equal(t, "post-1", claims.PostID)

	_, err = mint("signing-key", "", time.Minute)
	assert.Error(t, err)
	_, err = mint("signing-key", "post-1", 0)
	assert.Error(t, err)
}
