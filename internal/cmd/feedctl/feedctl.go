// Package feedctl implements the feed store command-line client.
package feedctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/feedstore/internal/platform/cmd"
	apperrors "github.com/louisbranch/feedstore/internal/platform/errors"
	platformgrpc "github.com/louisbranch/feedstore/internal/platform/grpc"
	"github.com/louisbranch/feedstore/internal/platform/timeouts"
	feedstoreservice "github.com/louisbranch/feedstore/internal/services/feedstore/api/grpc/feedstore"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Commands understood by feedctl.
const (
	CommandRetrieve = "retrieve"
	CommandInsert   = "insert"
	CommandDelete   = "delete"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("usage: feedctl [-addr host:port] [-dial-timeout d] [-lang locales] [-v] retrieve | delete | insert -file feed.json [-now]")

// Config holds feedctl configuration.
type Config struct {
	Addr           string        `env:"ADDR" envDefault:"localhost:8095"`
	DialTimeout    time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	// Lang is sent as accept-language to select the error message locale.
	Lang string `env:"LANG"`
	Verbose        bool

	Command string
	// File is the insert payload path; "-" reads standard input.
	File string
	// StampNow replaces the payload timestamp with the current time.
	StampNow bool
}

// ParseConfig parses environment, global flags and the subcommand.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Feed store gRPC address")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "Time to wait for the feed store to report healthy")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Time allowed for the feed cache call")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "Preferred locales for error messages, e.g. pt-BR")
	fs.BoolVar(&cfg.Verbose, "v", false, "Log dial progress to stderr")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = timeouts.GRPCDial
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = timeouts.GRPCRequest
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, ErrUsage
	}
	cfg.Command = rest[0]
	switch cfg.Command {
	case CommandRetrieve, CommandDelete:
		if len(rest) > 1 {
			return Config{}, fmt.Errorf("%w: %s takes no arguments", ErrUsage, cfg.Command)
		}
	case CommandInsert:
		insertFlags := flag.NewFlagSet(CommandInsert, flag.ContinueOnError)
		insertFlags.SetOutput(io.Discard)
		insertFlags.StringVar(&cfg.File, "file", "", "Feed JSON payload path, or - for stdin")
		insertFlags.BoolVar(&cfg.StampNow, "now", false, "Stamp the payload with the current time")
		if err := insertFlags.Parse(rest[1:]); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		if strings.TrimSpace(cfg.File) == "" {
			return Config{}, fmt.Errorf("%w: insert requires -file", ErrUsage)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown command %q", ErrUsage, cfg.Command)
	}
	return cfg, nil
}

// Run executes one feed cache command against the configured server.
func Run(ctx context.Context, cfg Config, stdin io.Reader, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceFeedCtl, func(ctx context.Context) error {
		var payload *structpb.Struct
		if cfg.Command == CommandInsert {
			loaded, err := loadPayload(cfg, stdin)
			if err != nil {
				return err
			}
			payload = loaded
		}

		dialCfg := platformgrpc.DialConfig{
			Addr:    cfg.Addr,
			Service: feedstoreservice.ServiceName,
			Timeout: cfg.DialTimeout,
		}
		if cfg.Verbose {
			dialCfg.Logf = func(format string, args ...any) {
				fmt.Fprintf(errOut, format+"\n", args...)
			}
		}
		conn, err := platformgrpc.DialWithHealth(ctx, dialCfg, platformgrpc.DefaultClientDialOptions()...)
		if err != nil {
			return err
		}
		defer conn.Close()

		callCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
		if lang := strings.TrimSpace(cfg.Lang); lang != "" {
			callCtx = metadata.AppendToOutgoingContext(callCtx, apperrors.AcceptLanguageKey, lang)
		}
		return execute(callCtx, feedstoreservice.NewFeedStoreServiceClient(conn), cfg.Command, payload, out)
	})
}

func execute(ctx context.Context, client feedstoreservice.FeedStoreServiceClient, command string, payload *structpb.Struct, out io.Writer) error {
	switch command {
	case CommandRetrieve:
		resp, err := client.RetrieveFeed(ctx, &emptypb.Empty{})
		if err != nil {
			return callError(command, err)
		}
		encoded, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encode feed: %w", err)
		}
		_, err = fmt.Fprintln(out, string(encoded))
		return err
	case CommandInsert:
		if _, err := client.InsertFeed(ctx, payload); err != nil {
			return callError(command, err)
		}
		_, err := fmt.Fprintln(out, "feed cache replaced")
		return err
	case CommandDelete:
		if _, err := client.DeleteCachedFeed(ctx, &emptypb.Empty{}); err != nil {
			return callError(command, err)
		}
		_, err := fmt.Fprintln(out, "feed cache deleted")
		return err
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}

// loadPayload reads and checks the insert payload before dialing.
func loadPayload(cfg Config, stdin io.Reader) (*structpb.Struct, error) {
	var (
		data []byte
		err  error
	)
	if cfg.File == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("%w: no standard input", ErrUsage)
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(cfg.File)
	}
	if err != nil {
		return nil, fmt.Errorf("read feed payload: %w", err)
	}

	payload := &structpb.Struct{}
	if err := protojson.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("parse feed payload: %w", err)
	}
	if cfg.StampNow {
		if payload.Fields == nil {
			payload.Fields = map[string]*structpb.Value{}
		}
		payload.Fields["timestamp"] = structpb.NewStringValue(time.Now().UTC().Format(time.RFC3339Nano))
	}
	if _, err := feedstoreservice.FeedFromStruct(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func callError(command string, err error) error {
	reason, ok := apperrors.ReasonFromStatus(err)
	if !ok {
		return fmt.Errorf("%s: %w", command, err)
	}
	if message, ok := apperrors.UserMessageFromStatus(err); ok {
		return fmt.Errorf("%s: %s (%s): %w", command, message, reason, err)
	}
	return fmt.Errorf("%s (%s): %w", command, reason, err)
}
