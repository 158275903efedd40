// Package fieldstream extracts a single scalar field from a JSON object while
// the object is still being produced, typically by a language model streaming
// its answer.
//
// The module is organized into a few packages:
//
// - fragment: pull-based sources of text fragments (slices, channels,
//   iterators, readers)
// - extract: the field extractors, one per kind of value (boolean, unsigned
//   integer, string)
// - llmstream: a fragment source reading the answer of an OpenAI-compatible
//   chat completion stream
//
// An extractor is fed the fragments in order and hands out the content of the
// field as soon as it can be told apart from the rest of the document:
//
//    fragments -> extractor -> field content ... -> completion event
//
// Whatever the way the document is split into fragments, the pieces of content
// handed out concatenate to the raw text of the value, without duplicates or
// gaps.  Once the value is complete, observers registered on the extractor are
// called with the converted value.
//
// The CLI utility is in the directory cmd/jf.  You can install it with:
//
//  go install github.com/arnodel/fieldstream/cmd/jf
//
// Then try it:
//
//  echo '{"name": "Pablo", "city": "Barcelona"}' | jf city
package fieldstream
