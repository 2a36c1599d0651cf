package regerr

// Option is an Error option function
type Option func(*Error)

func WithMessage(msg string) Option    { return func(e *Error) { e.Message = msg } }
func WithEntity(name string) Option    { return func(e *Error) { e.Entity = name } }
func WithAttribute(name string) Option { return func(e *Error) { e.Attribute = name } }
func WithElement(name string) Option   { return func(e *Error) { e.Element = name } }
func WithOffset(offset int) Option     { return func(e *Error) { e.Offset = offset } }
