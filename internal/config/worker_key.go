package config

type WorkerKeyStruct struct {
	RecomputeRankingsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	RecomputeRankingsQueue: "recompute_rankings_queue",
}
