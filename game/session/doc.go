// Package session keeps the Ricochet Robots games that are currently being
// played.
//
// A session pairs a board built from a map description with a round that
// has its robots placed from a seed, so a session created twice with the
// same map and seed plays out identically. IDs are matched
// case-insensitively; an empty ID on Create gets a short random one.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classic", desc, service.CreateOptions{Seed: 42})
//	if err != nil {
//		log.Fatal(err)
//	}
//	goal, _ := sess.Round.NextGoal()
//
// Persistence:
//
// NewManagerWithPersistence writes each session through to a
// SessionPersistence. FilePersistence stores one JSON file per session that
// embeds the map description and a round.Snapshot, so a restart resumes the
// robots, the goal pool and the score.
//
// Concurrency:
//
// The manager guards its index with a RWMutex. It does not serialize access
// to a single session's round; callers that share a session across
// goroutines have to do that themselves.
package session
