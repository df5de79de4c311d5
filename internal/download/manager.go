package download

import (
	"github.com/hostfetch/hostfetch/internal/engine/events"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// runItem drives one item through its transfer. The slot it occupies is held
// until the terminal state has been stored.
func (p *WorkerPool) runItem(s *Session, i int) {
	item := s.item(i)

	s.enter()
	p.speedometer.Begin(item.ID)

	item.Transition(types.StateResolving)
	s.store(i, item)
	p.send(events.ItemStateMsg{SessionID: s.ID, Item: item})

	err := p.transfer.Run(p.ctx, &item, s.DestDir)
	if err != nil {
		utils.Debug("WorkerPool: item %s failed: %v", item.ID, err)
	}

	// Zero this item's speed before anyone sees the terminal state
	p.speedometer.OnTransferDone(item.ID)
	p.send(events.ItemSpeedMsg{ItemID: item.ID, SpeedMBps: 0})
	s.leave()

	p.finishItem(s, i, item)
}

func (p *WorkerPool) finishItem(s *Session, i int, item types.DownloadItem) {
	item.CurrentSpeed = 0
	s.store(i, item)
	p.send(events.ItemStateMsg{SessionID: s.ID, Item: item})
}

// poolObserver routes transfer reports into the session snapshot, the
// aggregate speedometer and the event channel.
type poolObserver WorkerPool

func (o *poolObserver) ItemChanged(item types.DownloadItem) {
	p := (*WorkerPool)(o)
	p.mu.RLock()
	t, ok := p.items[item.ID]
	p.mu.RUnlock()
	if !ok {
		return
	}
	t.session.store(t.index, item)
	p.send(events.ItemStateMsg{SessionID: t.session.ID, Item: item})
}

func (o *poolObserver) ItemSpeed(itemID string, speedMBps float64) {
	p := (*WorkerPool)(o)
	p.send(events.ItemSpeedMsg{ItemID: itemID, SpeedMBps: speedMBps})
	p.speedometer.OnSpeedUpdate(itemID, speedMBps)
}
