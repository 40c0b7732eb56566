package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/categorize"
	enc "github.com/MrJamesThe3rd/pennywise/internal/encoding"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// DefaultCategory is assigned to imported rows no past transaction explains.
const DefaultCategory = "Uncategorized"

type Creator interface {
	CreateBatch(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type MatcherSource interface {
	Matcher(ctx context.Context) (*categorize.Matcher, error)
}

type Service struct {
	txs     Creator
	matcher MatcherSource
}

func NewService(txs Creator, matcher MatcherSource) *Service {
	return &Service{txs: txs, matcher: matcher}
}

type Result struct {
	Profile      string
	Charset      enc.Charset
	Transactions []*transaction.Transaction
}

// Import parses the upload, fills in missing categories and stores every
// row atomically. Nothing is stored if any row is invalid.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*Result, error) {
	parsed, err := Parse(format, r)
	if err != nil {
		return nil, err
	}

	if err := s.categorize(ctx, parsed.Params); err != nil {
		return nil, err
	}

	txs, err := s.txs.CreateBatch(ctx, parsed.Params)
	if err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []*transaction.Transaction{}
	}

	slog.InfoContext(ctx, "imported transactions",
		"profile", parsed.Profile,
		"charset", parsed.Charset,
		"count", len(txs))

	return &Result{Profile: parsed.Profile, Charset: parsed.Charset, Transactions: txs}, nil
}

func (s *Service) categorize(ctx context.Context, params []transaction.CreateParams) error {
	var m *categorize.Matcher

	for i := range params {
		if strings.TrimSpace(params[i].Category) != "" {
			continue
		}

		if m == nil {
			var err error

			m, err = s.matcher.Matcher(ctx)
			if err != nil {
				return fmt.Errorf("loading category suggestions: %w", err)
			}
		}

		params[i].Category = m.Suggest(params[i].Description)
		if params[i].Category == "" {
			params[i].Category = DefaultCategory
		}
	}

	return nil
}
