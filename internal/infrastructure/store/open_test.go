package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-publisher/config"
)

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{StoreDriver: DriverMemory}, nil, true)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DriverMemory, s.Driver)
	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Blogs)
	assert.Nil(t, s.PG)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "sqlite"}, nil, false)
	assert.ErrorContains(t, err, "sqlite")
}
