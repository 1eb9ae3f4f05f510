package services

import (
	"github.com/rs/zerolog/log"
)

// Participant is the single Service[Message, AdkgResult] every committee
// member runs: one flat OnMessage dispatch over the Tag space, fanning
// into the adkgMachine (which itself owns the nested vabaMachine and
// gatherMachine) instead of the teacher's tree of independently scheduled
// service adapters. The whole ADKG/VABA/Gather protocol stack is therefore
// one participant's single-threaded reaction loop, matching the run-to-
// completion, non-reentrant handler model this protocol requires.
type Participant struct {
	id   int
	adkg *adkgMachine
}

// NewParticipant builds participant id among n members tolerating f
// byzantine failures. honest mirrors the host's id < n-f assignment.
func NewParticipant(id, n, f, logN int, honest bool) *Participant {
	return &Participant{
		id:   id,
		adkg: newAdkgMachine(id, n, f, logN, honest),
	}
}

// Start emits whatever initial broadcast this participant's start
// produces (empty for a dishonest, silent participant).
func (p *Participant) Start(ctx ServiceContext[Message, AdkgResult]) {
	for _, msg := range p.adkg.start() {
		ctx.Broadcast(msg)
	}
}

func (p *Participant) OnMessage(msg Message, ctx ServiceContext[Message, AdkgResult]) {
	if !addressedToMe(p.id, msg) {
		return
	}

	switch msg.Kind {
	case AdkgAvssFin:
		for _, out := range p.adkg.handleAvssFin(msg.Sender) {
			ctx.Broadcast(out)
		}

	case AdkgProp:
		for _, out := range p.adkg.handleProp(msg.Sender, msg.PayloadIDs) {
			ctx.Broadcast(out)
		}

	case AdkgSig:
		for _, out := range p.adkg.handleSig(msg.Sender, msg.PayloadStr) {
			ctx.Broadcast(out)
		}

	case VabaAvssFin:
		if out := p.adkg.vaba.handleAvssFin(msg.Sender); out != nil {
			ctx.Broadcast(*out)
		}

	case VabaAttach:
		if out := p.adkg.vaba.handleAttach(msg.Sender, msg.PayloadIDs); out != nil {
			ctx.Broadcast(*out)
		}

	case VabaSig:
		if out := p.adkg.vaba.handleSig(msg.Sender, msg.PayloadStr); out != nil {
			ctx.Broadcast(*out)
		}

	case Gather1:
		if out := p.adkg.vaba.handleGather1(msg.Sender, msg.PayloadIDs); out != nil {
			ctx.Broadcast(*out)
		}

	case Gather2:
		if out := p.adkg.vaba.handleGather2(msg.Sender, msg.PayloadIDs); out != nil {
			ctx.Broadcast(*out)
		}

	case Gather3:
		if out := p.adkg.vaba.handleGather3(msg.PayloadIDs); out != nil {
			ctx.Broadcast(*out)
		}

	case GatherFin:
		if out := p.adkg.vaba.handleGatherFin(msg.PayloadIDs); out != nil {
			ctx.Broadcast(*out)
		}

	case VabaIndice:
		if out := p.adkg.vaba.handleIndice(msg.PayloadIDs); out != nil {
			ctx.Broadcast(*out)
		}

	case VabaEval:
		if out := p.adkg.vaba.handleEval(msg.Sender, msg.PayloadStr); out != nil {
			ctx.Broadcast(*out)
		}

	case VabaFin:
		if len(msg.PayloadIDs) != 1 {
			log.Warn().Str("layer", "ADKG").Int("node_id", p.id).Msg("malformed VabaFin payload")
			return
		}
		for _, out := range p.adkg.handleVabaFin(msg.PayloadIDs[0]) {
			ctx.Broadcast(out)
		}

	case SumAndRec:
		if res := p.adkg.handleSumAndRec(msg.Sender, msg.PayloadStr); res != nil {
			ctx.SendResult(*res)
		}
	}
}
