package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	t.Parallel()

	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/seedotp/internal/seed/usecase.(*Usecase).GenerateCode(...)
	/src/internal/seed/usecase/generate_code.go:21 +0x1b
main.main()
	/src/main.go:10 +0x25
`)

	assert.Equal(t, []string{"internal/seed/usecase/generate_code.go:21"}, InternalPaths(stack))
	assert.Empty(t, InternalPaths([]byte("no frames")))
}
