package models

type Mission struct {
	Id        int64    `json:"id"`
	CatId     int64    `json:"cat_id" binding:"required,gte=0"`
	Targets   []Target `json:"targets" binding:"required,min=1,max=3,dive"`
	Completed bool     `json:"completed"`
}

// Done counts completed targets.
func (m Mission) Done() int {
	n := 0
	for _, t := range m.Targets {
		if t.Completed {
			n++
		}
	}
	return n
}
