// Package parser provides pull-style decoding of YAML into structural events.
//
// A Parser yields one Event per Next call, in document order, until it
// returns io.EOF after the stream end event. Events own their data; the only
// exception is Scalar.Repr, a slice of the input that is available when the
// input was borrowed.
//
// # Example
//
//	p := parser.New(parser.Borrow(data))
//	defer p.Close()
//	for {
//	    ev, mark, err := p.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err // a *yamlerr.Error
//	    }
//	    fmt.Println(mark, ev.Type)
//	}
//
// # Input ownership
//
// Own copies the input, so the caller may reuse its buffer immediately.
// Borrow reads the caller's buffer in place: it must stay alive and
// unmodified while the Parser, or any Repr obtained from it, is in use.
//
// # Errors
//
// Errors are sticky. Once Next has failed, every later call returns a fresh
// snapshot of the same error without making progress.
package parser
