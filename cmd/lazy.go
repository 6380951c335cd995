package main

import "io"

// lazyWriteCloser delays opening its target until the first write, so a
// failed run leaves no empty output file behind.
type lazyWriteCloser struct {
	init   func() (io.WriteCloser, error)
	writer io.WriteCloser
}

func newLazyWriteCloser(init func() (io.WriteCloser, error)) *lazyWriteCloser {
	return &lazyWriteCloser{init: init}
}

func (f *lazyWriteCloser) Write(p []byte) (int, error) {
	if f.writer == nil {
		w, err := f.init()
		if err != nil {
			return 0, err
		}
		f.writer = w
	}
	return f.writer.Write(p)
}

func (f *lazyWriteCloser) Close() error {
	if f.writer != nil {
		return f.writer.Close()
	}
	return nil
}
