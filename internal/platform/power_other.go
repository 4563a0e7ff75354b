//go:build !linux

package platform

import "context"

func watchPower(ctx context.Context, events PowerEvents) error {
	<-ctx.Done()
	return nil
}
