package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextExtractor(t *testing.T) {
	extractor := NewPlainTextExtractor(0)
	ctx := context.Background()

	t.Run("extracts trimmed text", func(t *testing.T) {
		text, err := extractor.ExtractText(ctx, "contract.txt", strings.NewReader("  The parties agree...  \n"))
		require.NoError(t, err)
		assert.Equal(t, "The parties agree...", text)
	})

	t.Run("accepts markdown", func(t *testing.T) {
		text, err := extractor.ExtractText(ctx, "contract.md", strings.NewReader("# Agreement\nbody"))
		require.NoError(t, err)
		assert.Equal(t, "# Agreement\nbody", text)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		_, err := extractor.ExtractText(ctx, "contract.pdf", strings.NewReader("%PDF-1.4"))
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("rejects empty document", func(t *testing.T) {
		_, err := extractor.ExtractText(ctx, "contract.txt", strings.NewReader("   \n\t"))
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("rejects invalid encoding", func(t *testing.T) {
		_, err := extractor.ExtractText(ctx, "contract.txt", strings.NewReader("\xff\xfe\xfd"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("caps oversized documents", func(t *testing.T) {
		capped := NewPlainTextExtractor(10)
		text, err := capped.ExtractText(ctx, "contract.txt", strings.NewReader("0123456789ABCDEF"))
		require.NoError(t, err)
		assert.Equal(t, "0123456789", text)
	})
}
