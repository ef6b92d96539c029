package search

// SignLanguages are the language tags the model was trained with.
var SignLanguages = []string{
	"swl", "lls", "dsl", "ise", "bfi", "gsg", "asq", "csq", "ssp", "lsl", "rsl",
	"eso", "tsm", "svk", "rsl-by", "psr", "aed", "cse", "csl", "icl", "ukl", "bqn",
	"ase", "pso", "fsl", "asf", "gss", "pks", "fse", "jsl", "gss-cy", "rms", "bzs",
	"csg", "ins", "mfs", "jos", "nzs", "ils", "csf", "ysl",
}
