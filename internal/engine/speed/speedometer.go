package speed

import "sync"

// Speedometer sums the speed contributions of all in-flight transfers.
// Totals are computed under the lock and published outside it by one caller
// at a time. A caller that finds a publish already running leaves its total
// to that publisher, which keeps going until the latest total is out. Published
// totals therefore follow update order and the last one is always current.
type Speedometer struct {
	mu         sync.Mutex
	contrib    map[string]float64
	inFlight   int
	total      float64
	seq        uint64 // bumped on every recompute
	published  uint64
	publishing bool
	publish    func(totalMBps float64)
}

// NewSpeedometer calls publish with recomputed totals. publish runs without
// the lock held, so it may block or read the Speedometer.
func NewSpeedometer(publish func(totalMBps float64)) *Speedometer {
	return &Speedometer{
		contrib: make(map[string]float64),
		publish: publish,
	}
}

// Begin registers an in-flight item with no contribution yet.
func (s *Speedometer) Begin(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contrib[itemID]; ok {
		return
	}
	s.contrib[itemID] = 0
	s.inFlight++
}

// OnSpeedUpdate replaces the contribution of itemID and publishes the new total.
// Updates for items that are not in flight are dropped.
func (s *Speedometer) OnSpeedUpdate(itemID string, speedMBps float64) {
	s.mu.Lock()
	if _, ok := s.contrib[itemID]; !ok {
		s.mu.Unlock()
		return
	}
	if speedMBps < 0 {
		speedMBps = 0
	}
	s.contrib[itemID] = speedMBps
	s.recompute()
	s.mu.Unlock()
	s.flush()
}

// OnTransferDone removes the contribution of itemID. When nothing is left in
// flight the published total is exactly 0.
func (s *Speedometer) OnTransferDone(itemID string) {
	s.mu.Lock()
	if _, ok := s.contrib[itemID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.contrib, itemID)
	s.inFlight--
	s.recompute()
	s.mu.Unlock()
	s.flush()
}

// Total returns the most recently computed total.
func (s *Speedometer) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// InFlight returns how many items are registered.
func (s *Speedometer) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Speedometer) recompute() {
	if s.inFlight == 0 {
		s.total = 0
	} else {
		var sum float64
		for _, v := range s.contrib {
			sum += v
		}
		s.total = sum
	}
	s.seq++
}

// flush publishes until the latest total has gone out, unless another caller
// is already doing so.
func (s *Speedometer) flush() {
	if s.publish == nil {
		return
	}
	for {
		s.mu.Lock()
		if s.publishing || s.published == s.seq {
			s.mu.Unlock()
			return
		}
		s.publishing = true
		seq, total := s.seq, s.total
		s.mu.Unlock()

		s.publish(total)

		s.mu.Lock()
		s.published = seq
		s.publishing = false
		s.mu.Unlock()
	}
}
