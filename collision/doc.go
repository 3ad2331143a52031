// Package collision is a lost-update experiment.
//
// The collision command starts floor(1.25 × GOMAXPROCS) workers on a fixed
// pool. Each worker increments one shared int32 counter
// (MaxInt32 − 2) / workers times and then prints an unguarded snapshot of
// it. Once every worker has finished, the final value is compared with the
// number of increments performed.
//
// # Strategies
//
// The single command-line argument selects how increments are performed:
//
//	collision inc     # plain counter++ with no synchronization
//	collision sync    # counter++ under one mutex shared by all workers
//
// Any value other than "inc" selects the synchronized strategy. With the
// synchronized strategy the final value always matches. With "inc" the
// read-increment-write sequences of different workers overlap and updates
// get lost, so on a multi-core machine the run usually ends with
//
//	got rev = 5A3C81F2, want 7FFFFFF8.
//
// # Visibility
//
// Reads of the counter are never locked, not even in the synchronized mode.
// The per-worker snapshot may therefore show any value the counter held
// while other workers were still running. The final read happens after
// every worker has been joined.
//
// # Race detector
//
// Running the command or its tests with -race reports the unguarded
// accesses. That is the point of the experiment; tests that race on purpose
// are built only without the race tag.
package collision
