package ldap

import "github.com/oba-ldap/ldapc/internal/ber"

// decodeApplicationTag strips an APPLICATION-class tag and length, returning
// its tag number, constructed bit, and content -- the shape every response
// parser in this package expects as input.
func decodeApplicationTag(data []byte) (tagNumber int, constructed bool, content []byte, err error) {
	dec := ber.NewBERDecoder(data)
	class, cons, num, err := dec.ReadTag()
	if err != nil {
		return 0, false, nil, err
	}
	length, err := dec.ReadLength()
	if err != nil {
		return 0, false, nil, err
	}
	start := dec.Offset()
	_ = class
	return num, cons != 0, data[start : start+length], nil
}
