package domain

import (
	"context"
	"errors"

	"lottie-catalog/api"
)

// ErrUnknown stands in for a failure that carried no error value
var ErrUnknown = errors.New("unknown error")

// Producer is a lazy single-shot source. Each Run starts the work afresh and
// the returned channel yields exactly one Result before it is closed.
type Producer[T any] interface {
	Run(ctx context.Context) <-chan Result[T]
}

// ProducerFunc adapts a function to the Producer interface
type ProducerFunc[T any] func(ctx context.Context) <-chan Result[T]

// Run calls f(ctx)
func (f ProducerFunc[T]) Run(ctx context.Context) <-chan Result[T] {
	return f(ctx)
}

// Just returns a Producer that yields r on every Run
func Just[T any](r Result[T]) Producer[T] {
	return ProducerFunc[T](func(ctx context.Context) <-chan Result[T] {
		out := make(chan Result[T], 1)
		out <- r
		close(out)
		return out
	})
}

// catalogProducer performs one catalog fetch per Run
type catalogProducer struct {
	client api.ClientInterface
}

func (p catalogProducer) Run(ctx context.Context) <-chan Result[[]api.AnimationDescriptor] {
	out := make(chan Result[[]api.AnimationDescriptor], 1)
	go func() {
		defer close(out)
		catalog, err := p.client.FetchCatalog(ctx)
		if err != nil {
			out <- Failure[[]api.AnimationDescriptor](err)
			return
		}
		if catalog == nil {
			out <- Success([]api.AnimationDescriptor{})
			return
		}
		out <- Success(catalog.Animations)
	}()
	return out
}

// CatalogService sits between the loading state machine and the client
type CatalogService struct {
	client api.ClientInterface
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client api.ClientInterface) *CatalogService {
	return &CatalogService{
		client: client,
	}
}

// ListAnimations returns a producer for the animation catalog. Nothing is
// fetched until the producer is run.
func (s *CatalogService) ListAnimations() Producer[[]api.AnimationDescriptor] {
	return catalogProducer{client: s.client}
}

// FetchPayload downloads one animation's raw payload
func (s *CatalogService) FetchPayload(ctx context.Context, url string) Result[string] {
	payload, err := s.client.FetchPayload(ctx, url)
	if err != nil {
		return Failure[string](err)
	}
	return Success(payload)
}
