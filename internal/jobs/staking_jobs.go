package jobs

import (
	"context"
	"time"

	"seva-ledger/internal/logger"
	"seva-ledger/internal/service"
)

// MatureStakes finalizes active positions whose period has elapsed:
// ACTIVE -> COMPLETED with the full-term rewards locked in. The transition
// is guarded by status in SQL, so re-running the job is harmless. Funds stay
// reserved until the owner withdraws.
func (jr *JobRunner) MatureStakes() {
	jr.runWithRecovery("MatureStakes", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		matured, err := jr.stakes.ListMatured(ctx, now)
		if err != nil {
			logger.Error("Failed to list matured stakes", "error", err)
			return
		}

		completed := 0
		for _, pos := range matured {
			rewards := service.AccruedRewards(&pos, pos.MaturesAt())
			if err := jr.stakes.Complete(ctx, pos.ID, rewards); err != nil {
				logger.Error("Failed to complete stake", "stake_id", pos.ID, "error", err)
				continue
			}
			completed++
		}

		logger.Info("Matured stakes finalized", "count", completed, "candidates", len(matured))
	})
}

// MaterializeStakeRewards persists the current accrual of every active
// position for reporting. The update is monotonic (earned_rewards only
// grows), so at-least-once scheduling per period is safe.
func (jr *JobRunner) MaterializeStakeRewards() {
	jr.runWithRecovery("MaterializeStakeRewards", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		active, err := jr.stakes.ListActive(ctx)
		if err != nil {
			logger.Error("Failed to list active stakes", "error", err)
			return
		}

		updated := 0
		for _, pos := range active {
			rewards := service.AccruedRewards(&pos, now)
			if rewards <= pos.EarnedRewards {
				continue
			}
			if err := jr.stakes.MaterializeRewards(ctx, pos.ID, rewards); err != nil {
				logger.Error("Failed to materialize stake rewards", "stake_id", pos.ID, "error", err)
				continue
			}
			updated++
		}

		logger.Info("Stake rewards materialized", "updated", updated, "active", len(active))
	})
}
