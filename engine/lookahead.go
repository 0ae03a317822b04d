package engine

import (
	"github.com/Qautry/booster/artifact"
	"github.com/Qautry/booster/collector"
	"github.com/Qautry/booster/workpool"
)

// lookAhead runs the composite collector over every input in parallel and
// builds the out-of-date set: artifacts the upstream build marked unchanged
// but that at least one collector matched. The incremental algorithm treats
// those as if they had changed. This phase is a synchronization barrier; no
// transform task is scheduled until every collection task has finished.
func (inv *Invocation) lookAhead(set *artifact.Set) error {
	if inv.collectors.Len() == 0 {
		return nil
	}
	composite := inv.collectors.Composite()

	var group workpool.Group
	for _, a := range set.All() {
		group.Go(inv.pool, func() error {
			matches, err := composite.Collect(a)
			if err != nil {
				return &collector.ScanError{Artifact: a.Name, Err: err}
			}
			if !matches.Empty() {
				inv.markOutOfDate(a.Name)
				inv.Logger().Debug("look-ahead match", "artifact", a.Name, "matches", len(matches))
			}
			return nil
		})
	}
	return group.Wait()
}
