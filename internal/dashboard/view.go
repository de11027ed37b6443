// Package dashboard holds the state behind the career navigator pages: the
// form inputs, the last fetched data and the message shown to the user.
package dashboard

// View is the state of one remote fetch. A failed attempt keeps the data of the
// last successful one.
type View[T any] struct {
	Loading bool
	Err     string
	Data    T
	Loaded  bool
}

// Begin starts an attempt and clears the previous error.
func (v *View[T]) Begin() {
	v.Loading = true
	v.Err = ""
}

func (v *View[T]) Fail(msg string) {
	v.Loading = false
	v.Err = msg
}

func (v *View[T]) Done(data T) {
	v.Loading = false
	v.Err = ""
	v.Data = data
	v.Loaded = true
}
