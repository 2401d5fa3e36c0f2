package mqtt

import "strings"

// Topic prefixes.
const (
	// TopicPrefix is the root of every topic this service publishes.
	TopicPrefix = "homerpc"

	// TopicPrefixSystem is the base for service lifecycle topics.
	TopicPrefixSystem = TopicPrefix + "/system"
)

// Topics provides builders for homerpc topics.
//
//	topics := mqtt.Topics{}
//	topics.State("kitchen", "Smart Kettle 1")
//	// Returns: "homerpc/state/kitchen/Smart Kettle 1"
type Topics struct{}

// State returns the retained state topic of one device.
func (Topics) State(room, device string) string {
	return TopicPrefix + "/state/" + segment(room) + "/" + segment(device)
}

// Batch returns the topic announcing served batches.
func (Topics) Batch() string {
	return TopicPrefix + "/batch"
}

// SystemStatus returns the online/offline status topic.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// AllStates returns a wildcard matching every device state topic.
func (Topics) AllStates() string {
	return TopicPrefix + "/state/+/+"
}

// All returns a wildcard matching every homerpc topic.
func (Topics) All() string {
	return TopicPrefix + "/#"
}

// segmentReplacer neutralises characters with meaning in topic filters.
var segmentReplacer = strings.NewReplacer("/", "_", "+", "_", "#", "_")

// segment makes a room or device name safe to use as one topic level.
func segment(name string) string {
	if name == "" {
		return "_"
	}
	return segmentReplacer.Replace(name)
}
