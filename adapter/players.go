package adapter

import (
	"github.com/df-mc/dragonfly/server/player"
	"github.com/google/uuid"

	"github.com/dm-vev/adamant-utils/bus"
)

// Players is a set adapter tracking online players by UUID. Players that fail
// the injected online check are rejected on insertion and players are removed
// from the set automatically when they quit the server.
type Players struct {
	*Set[uuid.UUID]
	online func(uuid.UUID) bool
}

// NewPlayers creates a disabled Players adapter. online reports whether a
// player is currently connected; it usually closes over the server's player
// lookup. A nil online check accepts every UUID.
func NewPlayers(reg bus.Registry, owner string, online func(uuid.UUID) bool) *Players {
	p := &Players{online: online}
	p.Set = New(Options[uuid.UUID]{
		Bus:      reg,
		Owner:    owner,
		Listener: &playersListener{players: p},
		Valid:    p.isOnline,
		Name:     "player set",
	})
	return p
}

func (p *Players) isOnline(id uuid.UUID) bool {
	return p.online == nil || p.online(id)
}

// AddPlayer adds pl's UUID, subject to the online check.
func (p *Players) AddPlayer(pl *player.Player) (bool, error) {
	return p.Add(pl.UUID())
}

// playersListener keeps the set consistent with the server's player list.
type playersListener struct {
	player.NopHandler
	players *Players
}

func (l *playersListener) HandleQuit(pl *player.Player) {
	l.players.Remove(pl.UUID())
}
