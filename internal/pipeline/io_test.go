package pipeline

import (
	"context"
	"errors"
	"testing"

	"stepstore/internal/codec"
	"stepstore/internal/outputstore"
)

func TestProducerAndConsumerContextsAgree(t *testing.T) {
	oc := OutputContext{
		StepKey:      "extract",
		Name:         "result",
		Metadata:     map[string]string{"path": "reports/out.bin"},
		PipelineName: "demo",
		StepDef:      "extract-def",
		RunID:        "r1",
		Version:      "v7",
	}

	producer, err := FromOutput(oc)
	if err != nil {
		t.Fatalf("from output: %v", err)
	}
	consumer, err := FromLoad(LoadContext{Upstream: &oc, StepDef: "transform-def"})
	if err != nil {
		t.Fatalf("from load: %v", err)
	}

	// Addressing fields must match so the write key equals the read key.
	if producer.Identity() != consumer.Identity() {
		t.Fatalf("identity mismatch: %v vs %v", producer.Identity(), consumer.Identity())
	}
	if producer.PipelineName != consumer.PipelineName || producer.Version != consumer.Version {
		t.Fatalf("context field mismatch: %+v vs %+v", producer, consumer)
	}
	if p, _ := producer.MetadataValue("path"); p != "reports/out.bin" {
		t.Fatalf("producer metadata lost: %q", p)
	}
	if c, _ := consumer.MetadataValue("path"); c != "reports/out.bin" {
		t.Fatalf("consumer metadata lost: %q", c)
	}

	// Only the opaque step definition differs: it belongs to the consumer.
	if consumer.StepDef != "transform-def" {
		t.Fatalf("unexpected consumer step def: %v", consumer.StepDef)
	}
}

func TestFromLoadRequiresUpstream(t *testing.T) {
	_, err := FromLoad(LoadContext{})
	if !errors.Is(err, outputstore.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestHandleOutputThenLoadInput(t *testing.T) {
	store, err := outputstore.NewFSStore(t.TempDir(), codec.JSONCodec{})
	if err != nil {
		t.Fatalf("new fs store: %v", err)
	}
	ctx := context.Background()
	oc := OutputContext{
		StepKey:      "extract",
		Name:         "result",
		PipelineName: "demo",
		RunID:        "r1",
	}

	if _, err := HandleOutput(ctx, store, oc, "payload"); err != nil {
		t.Fatalf("handle output: %v", err)
	}
	v, err := LoadInput(ctx, store, LoadContext{Upstream: &oc, StepDef: "consumer"})
	if err != nil {
		t.Fatalf("load input: %v", err)
	}
	if v != "payload" {
		t.Fatalf("unexpected value: %v", v)
	}
}
