package app

// Relevant exports the watch event filter for testing.
var Relevant = relevant
