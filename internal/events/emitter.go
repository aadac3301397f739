package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var Emit = func(ctx context.Context, name string, evt LookupEvent) {}

func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt LookupEvent) {
		if evt.AttemptKey == "" {
			if attempt := AttemptFromContext(ctx); attempt != "" {
				evt.AttemptKey = attempt
			}
		}

		runtime.EventsEmit(ctx, name, evt)

		logRuntimeEvent(ctx, name, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt LookupEvent)) {
	if f == nil {
		Emit = func(context.Context, string, LookupEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt LookupEvent) {
		if evt.AttemptKey == "" {
			if attempt := AttemptFromContext(ctx); attempt != "" {
				evt.AttemptKey = attempt
			}
		}
		f(ctx, name, evt)
	}
}
