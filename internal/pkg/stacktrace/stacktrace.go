package stacktrace

import "strings"

// InternalPaths picks the "internal/<pkg>/<file>.go:<line>" locations out of a
// debug.Stack dump. The goroutine header line is skipped.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	if len(lines) < 2 {
		return nil
	}

	paths := make([]string, 0, len(lines)/2)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)

		file, rest, ok := strings.Cut(line, ".go:")
		if !ok {
			continue
		}
		_, short, ok := strings.Cut(file, "/internal/")
		if !ok {
			continue
		}

		lineNo, _, _ := strings.Cut(rest, " ")
		paths = append(paths, "internal/"+short+".go:"+lineNo)
	}

	return paths
}
