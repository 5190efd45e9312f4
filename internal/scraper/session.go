package scraper

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/fetch"
	"github.com/jobrake/jobrake/internal/logging"
)

// session carries the loop-safety state for one root-URL crawl: every set is
// scoped to the session, so independent crawls share nothing. The page cache
// guarantees a URL is fetched at most once even when the same URL is reached
// through different crawl paths.
type session struct {
	id      string
	country string
	log     *zap.Logger

	visited    map[string]struct{}
	gateways   map[string]struct{}
	jobDetails map[string]struct{}
	pages      map[string]fetch.Result
}

func newSession(base *zap.Logger, rootURL, country string) *session {
	id := uuid.NewString()
	return &session{
		id:         id,
		country:    country,
		log:        logging.ForSession(base, id, rootURL),
		visited:    make(map[string]struct{}),
		gateways:   make(map[string]struct{}),
		jobDetails: make(map[string]struct{}),
		pages:      make(map[string]fetch.Result),
	}
}

func (s *session) seen(url string) bool {
	_, ok := s.visited[url]
	return ok
}

func (s *session) markSeen(url string) {
	s.visited[url] = struct{}{}
}

func (s *session) isGateway(url string) bool {
	_, ok := s.gateways[url]
	return ok
}

func (s *session) markGateway(url string) {
	s.gateways[url] = struct{}{}
}

func (s *session) jobSeen(url string) bool {
	_, ok := s.jobDetails[url]
	return ok
}

func (s *session) markJobSeen(url string) {
	s.jobDetails[url] = struct{}{}
}
