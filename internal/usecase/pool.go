package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
)

// resolveMembership checks the given addresses against the membership
// oracle with bounded concurrency and a fixed delay per lookup to respect
// third-party rate limits. Failed lookups are simply absent from the
// returned map: an unresolved membership is not a false.
func resolveMembership(ctx context.Context, oracle repository.MembershipOracle, addresses []string, workers int, delay time.Duration, metrics repository.Metrics) map[string]bool {
	if workers <= 0 {
		workers = 5
	}

	var mu sync.Mutex
	results := make(map[string]bool, len(addresses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, addr := range addresses {
		g.Go(func() error {
			member, err := oracle.IsMember(ctx, addr)
			if delay > 0 {
				time.Sleep(delay)
			}
			if err != nil {
				if metrics != nil {
					metrics.RecordCollaboratorError("membership")
				}
				return nil
			}
			if metrics != nil {
				metrics.RecordMembershipCheck(member)
			}
			mu.Lock()
			results[addr] = member
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// decodeBridgeOrigins decodes bridge tx hashes with bounded concurrency.
// Undecodable hashes and decode failures are absent from the result.
func decodeBridgeOrigins(ctx context.Context, decoder repository.BridgeDecoder, hashes []string, workers int, delay time.Duration, metrics repository.Metrics) map[string]*models.OriginInfo {
	if decoder == nil || len(hashes) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 3
	}

	var mu sync.Mutex
	results := make(map[string]*models.OriginInfo, len(hashes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, h := range hashes {
		g.Go(func() error {
			origin, err := decoder.Decode(ctx, h)
			if delay > 0 {
				time.Sleep(delay)
			}
			if err != nil {
				if metrics != nil {
					metrics.RecordCollaboratorError("bridge")
				}
				return nil
			}
			if origin == nil {
				return nil
			}
			mu.Lock()
			results[h] = origin
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
