package safe

import (
	"ThreadsApp/logger"
)

// Go starts a goroutine that recovers from panic,
// so that a bad handler doesn't crash the whole gateway.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}
