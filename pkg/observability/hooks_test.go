package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnListStart(ctx, "bower")
	p.OnListComplete(ctx, "bower", 12, time.Second, nil)
	p.OnConvertStart(ctx, "jquery")
	p.OnConvertComplete(ctx, "jquery", "shim", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "main")
	c.OnCacheMiss(ctx, "global")
	c.OnCacheSet(ctx, "main", 9)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should keep the registered hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	hooks := &testPipelineHooks{}
	SetPipelineHooks(hooks)

	ctx := context.Background()
	Pipeline().OnConvertStart(ctx, "backbone")
	Pipeline().OnConvertComplete(ctx, "backbone", "adapter", time.Millisecond, nil)

	if hooks.started != 1 || hooks.completed != 1 {
		t.Errorf("started=%d completed=%d, want 1 and 1", hooks.started, hooks.completed)
	}
	if hooks.lastStrategy != "adapter" {
		t.Errorf("lastStrategy = %q, want adapter", hooks.lastStrategy)
	}
}

type testPipelineHooks struct {
	NoopPipelineHooks
	started      int
	completed    int
	lastStrategy string
}

func (h *testPipelineHooks) OnConvertStart(context.Context, string) { h.started++ }
func (h *testPipelineHooks) OnConvertComplete(_ context.Context, _, strategy string, _ time.Duration, _ error) {
	h.completed++
	h.lastStrategy = strategy
}

type testCacheHooks struct {
	NoopCacheHooks
}
