package render

// Renderer prints the result of a use case to the terminal
type Renderer[T any] interface {
	Render(result T) error
}
