package pipeline

import (
	"context"

	"github.com/pratikbuilds/account-socket/internal/domain"
)

// Datasource delivers decoded account updates from the upstream chain feed.
// Run blocks until ctx is cancelled or the source fails permanently.
type Datasource interface {
	Run(ctx context.Context, out chan<- domain.DecodedUpdate) error
}

// Decoder turns a raw account payload into a typed variant. The concrete
// decoder lives outside this service; an account the decoder does not
// recognize returns an error and is skipped.
type Decoder interface {
	Decode(pubkey, owner string, lamports int64, data []byte) (domain.AccountData, error)
}

// Processor consumes one decoded update at a time.
type Processor interface {
	Process(ctx context.Context, update domain.DecodedUpdate) error
}
