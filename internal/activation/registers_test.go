package activation

import (
	"context"
	"testing"

	"github.com/kivu-pay/kivu_pay/internal/account"
)

func TestStagingRegisterPutTake(t *testing.T) {
	reg := NewStagingRegister()

	reg.Put(account.Account{Email: "a@x.com", Name: "A", ReferenceCode: "REF100001"})
	if !reg.HasReferenceCode("REF100001") {
		t.Fatal("expected reference code to be visible")
	}

	// A later registration for the same address supersedes the first candidate.
	reg.Put(account.Account{Email: "a@x.com", Name: "A2", ReferenceCode: "REF100002"})
	staged, ok := reg.Get("a@x.com")
	if !ok || staged.Name != "A2" {
		t.Fatalf("expected superseded candidate, got %+v ok=%v", staged, ok)
	}

	taken, ok := reg.Take("a@x.com")
	if !ok || taken.ReferenceCode != "REF100002" {
		t.Fatalf("take returned %+v ok=%v", taken, ok)
	}
	if _, ok := reg.Take("a@x.com"); ok {
		t.Fatal("second take must miss")
	}
	if reg.HasReferenceCode("REF100002") {
		t.Fatal("taken candidate must not be visible anymore")
	}
}

func TestMemoryCodeRegisterConsume(t *testing.T) {
	reg := NewMemoryCodeRegister()
	ctx := context.Background()

	if err := reg.Put(ctx, "a@x.com", "111111"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err := reg.Consume(ctx, "a@x.com", "222222")
	if err != nil || ok {
		t.Fatalf("mismatched code must not consume, ok=%v err=%v", ok, err)
	}

	ok, err = reg.Consume(ctx, "a@x.com", "111111")
	if err != nil || !ok {
		t.Fatalf("matching code must consume, ok=%v err=%v", ok, err)
	}

	ok, err = reg.Consume(ctx, "a@x.com", "111111")
	if err != nil || ok {
		t.Fatalf("consumed code must not match again, ok=%v err=%v", ok, err)
	}
}

func TestMemoryCodeRegisterOverwriteInvalidatesPrevious(t *testing.T) {
	reg := NewMemoryCodeRegister()
	ctx := context.Background()

	if err := reg.Put(ctx, "a@x.com", "111111"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := reg.Put(ctx, "a@x.com", "222222"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err := reg.Consume(ctx, "a@x.com", "111111")
	if err != nil || ok {
		t.Fatalf("stale code must not consume, ok=%v err=%v", ok, err)
	}
	ok, err = reg.Consume(ctx, "a@x.com", "222222")
	if err != nil || !ok {
		t.Fatalf("latest code must consume, ok=%v err=%v", ok, err)
	}
}
