package authengine

import "io"

func readFull(r io.Reader, buf []byte) (int, error) {
	return io.ReadFull(r, buf)
}

func writeAll(w io.Writer, buf []byte) error {
	_, err := w.Write(buf)
	return err
}
