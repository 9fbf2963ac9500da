package disk

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxFileSize is the size of the buffers used by Verify.
const MaxFileSize = 0x10000

// Result is the outcome of the verification of a file.
type Result struct {
	Entry Entry
	Size  int
	Err   error
}

// Verify loads every file of dev accepted by filter and checks its content
// with decode, concurrently. Results are in directory order. The returned
// error is only set if the directory can't be read or ctx is done, per-file
// errors are reported in the results.
//
// dev must support concurrent loads, which Dir and D64 do.
func Verify(ctx context.Context, dev Device, filter func(Entry) bool, decode func(Entry, []byte) error) ([]Result, error) {
	var entries []Entry
	for e, err := range dev.Entries() {
		if err != nil {
			return nil, err
		}
		if filter == nil || filter(e) {
			entries = append(entries, e)
		}
	}

	results := make([]Result, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf := make([]byte, MaxFileSize)
			n, err := dev.Load(e.Name, buf)
			if err == nil {
				err = decode(e, buf[:n])
			}
			results[i] = Result{Entry: e, Size: n, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
