package errors

import (
	"context"
	"errors"
	"io"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestWrapUnwrapsCause(t *testing.T) {
	err := Wrap(CodeFeedCachePersist, "insert feed", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if got := err.Error(); got != "insert feed: unexpected EOF" {
		t.Fatalf("message = %q", got)
	}
	if !errors.Is(err, New(CodeFeedCachePersist, "other message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(err, New(CodeFeedCacheRead, "insert feed")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestToGRPCStatusCarriesReason(t *testing.T) {
	err := New(CodeFeedInvalidImage, "image 2: url is required").
		WithMetadata(map[string]string{"index": "2"}).
		ToGRPCStatus(DefaultLocale)

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected gRPC status, got %v", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %v, want %v", st.Code(), codes.InvalidArgument)
	}
	reason, ok := ReasonFromStatus(err)
	if !ok || reason != CodeFeedInvalidImage {
		t.Fatalf("reason = %q (%t), want %q", reason, ok, CodeFeedInvalidImage)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := map[Code]codes.Code{
		CodeFeedInvalidPayload: codes.InvalidArgument,
		CodeFeedCacheRead:      codes.Unavailable,
		CodeFeedCacheBusy:      codes.Unavailable,
		CodeFeedStoreClosed:    codes.Unavailable,
		CodeFeedCachePersist:   codes.Aborted,
		CodeCanceled:           codes.Canceled,
		CodeDeadlineExceeded:   codes.DeadlineExceeded,
		CodeUnknown:            codes.Internal,
	}
	for code, want := range tests {
		if got := code.GRPCCode(); got != want {
			t.Fatalf("%s.GRPCCode() = %v, want %v", code, got, want)
		}
	}
}

func TestReasonFromStatusIgnoresPlainErrors(t *testing.T) {
	if _, ok := ReasonFromStatus(io.EOF); ok {
		t.Fatal("expected no reason for non-status error")
	}
	if _, ok := ReasonFromStatus(status.Error(codes.Internal, "boom")); ok {
		t.Fatal("expected no reason for status without details")
	}
}

func TestToGRPCStatusLocalizesMessage(t *testing.T) {
	appErr := Wrap(CodeFeedCachePersist, "insert feed", io.ErrUnexpectedEOF).
		WithMetadata(map[string]string{"operation": "insert"})

	english, ok := UserMessageFromStatus(appErr.ToGRPCStatus(""))
	if !ok || english != "The feed cache could not be saved during insert." {
		t.Fatalf("en-US message = %q (%t)", english, ok)
	}
	portuguese, ok := UserMessageFromStatus(appErr.ToGRPCStatus("pt-BR,en;q=0.5"))
	if !ok || portuguese != "Não foi possível salvar o cache do feed durante insert." {
		t.Fatalf("pt-BR message = %q (%t)", portuguese, ok)
	}
}

func TestLocaleFromContext(t *testing.T) {
	if got := LocaleFromContext(context.Background()); got != DefaultLocale {
		t.Fatalf("locale without metadata = %q, want %q", got, DefaultLocale)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(AcceptLanguageKey, "pt-BR"))
	if got := LocaleFromContext(ctx); got != "pt-BR" {
		t.Fatalf("locale = %q, want pt-BR", got)
	}
	blank := metadata.NewIncomingContext(context.Background(), metadata.Pairs(AcceptLanguageKey, " "))
	if got := LocaleFromContext(blank); got != DefaultLocale {
		t.Fatalf("blank locale = %q, want %q", got, DefaultLocale)
	}
}
