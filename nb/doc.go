// Package nb implements the batched multinomial Naive Bayes classifier.
//
// Classes are processed in batches sized so one class-feature table fits the
// memory budget:
//
//	size := nb.Planner{SafetyFactor: 100}.SuggestBatchSize(mem, features)
//	for _, b := range nb.PlanBatches(classes, size) {
//	    model, stats, err := trainer.Train(ctx, b)
//	    ...
//	    recs, err := evaluator.Evaluate(ctx, model, testItems)
//	    model.Release()
//	}
//
// # Training
//
// [Trainer.Train] makes one pass over the corpus per batch. Every reader
// accumulates privately; the accumulators are summed into a [CountTable]
// after the pass. The aggregate row always covers the full corpus, so the
// background estimate used for smoothing does not depend on the batch.
//
// [CountTable.IntoProbabilities] consumes the counts and yields a
// [ProbabilityTable]. Counts and probabilities never share a table.
//
// # Smoothing
//
//   - Dirichlet(mu):       (a + mu*bg) / (classTotal + mu)
//   - Jelinek-Mercer(l):   l*bg + (1-l)*a/classTotal
//
// with bg the corpus frequency of the feature. Features never seen in
// training get probability 1 and do not contribute to any score.
//
// # Scoring
//
// [Evaluator.Evaluate] scores each test item against every class of the
// batch as prior + sum(log p(feature|class)) and keeps the best local class.
package nb
