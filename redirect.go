package jobsh

import (
	"os"
)

// openRedirect opens the file a stream is redirected to. Input files are
// opened read-only; output and error files are created or truncated. Missing
// parent directories are not created.
func openRedirect(stream Stream, path string) (*os.File, error) {
	switch stream {
	case Stdin:
		return os.Open(path)
	default:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	}
}

// openRedirects opens every redirection on n. On failure the files opened so
// far are closed and the error names the offending path.
func openRedirects(n *Node) ([3]*os.File, error) {
	var files [3]*os.File
	for s, path := range n.Redirects {
		if path == "" {
			continue
		}
		f, err := openRedirect(Stream(s), path)
		if err != nil {
			closeFiles(files[:]...)
			return [3]*os.File{}, err
		}
		files[s] = f
	}
	return files, nil
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}
