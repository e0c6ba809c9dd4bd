package record

// TypeRun is the type tag of records produced by Runs.
const TypeRun = "run"

// Runs extracts the distinct runs referenced by data, keyed by run hash, in
// first-seen order. Each result is {"run": <run>, "type": "run"}. Records
// without a run mapping are skipped.
func Runs(data []Record) []Record {
	seen := make(map[string]bool)
	var out []Record
	for _, item := range data {
		run, ok := asMap(item[FieldRun])
		if !ok {
			continue
		}
		hash := String(run[FieldHash])
		if seen[hash] {
			continue
		}
		seen[hash] = true
		out = append(out, Record{FieldRun: run, FieldType: TypeRun})
	}
	return out
}
