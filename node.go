package main

import (
	"adkg-protocol/services"
)

// Node wraps one participant's ServiceManager, giving the host a uniform
// Start/Result/Inbox handle regardless of whether the participant is
// honest or silently byzantine.
type Node struct {
	ID      int
	Service *services.Participant
	Manager *services.ServiceManager[services.Message, services.AdkgResult]
}

// NewNode creates a new Node instance for participant id among n members
// tolerating f byzantine failures, using logN = ceil(log2(n)) committee
// sizing for its AVSS instances.
func NewNode(id, n, f, logN int, honest bool, network *services.Network[services.Message]) *Node {
	participant := services.NewParticipant(id, n, f, logN, honest)
	manager := services.NewServiceManager[services.Message, services.AdkgResult](participant, network)

	return &Node{
		ID:      id,
		Service: participant,
		Manager: manager,
	}
}

// Start starts the node's service manager and emits its initial message.
func (n *Node) Start() {
	n.Manager.Start()
	n.Service.Start(n.Manager)
}

// Result returns the channel carrying this node's terminal AdkgResult.
func (n *Node) Result() <-chan services.AdkgResult {
	return n.Manager.Result()
}

// Inbox returns the channel for incoming messages (used for network registration).
func (n *Node) Inbox() chan services.Message {
	return n.Manager.Inbox()
}
