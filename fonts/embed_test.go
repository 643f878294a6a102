package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltinTypefaces(t *testing.T) {
	for _, name := range Names() {
		tf, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, tf.Name)
		assert.NotEmpty(t, tf.Regular, name)
		assert.NotEmpty(t, tf.Bold, name)
		assert.NotEqual(t, tf.Regular, tf.Bold, name)
	}
}

func TestLookupNormalizesName(t *testing.T) {
	tf, err := Lookup("builtin:Latin-Modern ")
	require.NoError(t, err)
	assert.Equal(t, "latin-modern", tf.Name)

	_, err = Lookup("inter")
	assert.ErrorContains(t, err, "go, latin-modern")
}
