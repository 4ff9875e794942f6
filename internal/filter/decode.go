package filter

import "github.com/oba-ldap/ldapc/internal/ber"

// Decode reads an RFC 4511 Filter CHOICE from dec and returns its Filter
// representation. Used by the codec's round-trip tests and by any future
// consumer that needs to inspect a filter that arrived over the wire (e.g.
// an intermediate response echoing the filter it matched).
func Decode(dec *ber.BERDecoder) (*Filter, error) {
	tagNum, constructed, data, err := dec.ReadTaggedValue()
	if err != nil {
		return nil, err
	}

	switch tagNum {
	case tagAnd, tagOr:
		if !constructed {
			return nil, ErrUnknownFilterType
		}
		sub := ber.NewBERDecoder(data)
		var children []*Filter
		for sub.Remaining() > 0 {
			child, err := Decode(sub)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if tagNum == tagAnd {
			return NewAnd(children...), nil
		}
		return NewOr(children...), nil

	case tagNot:
		if !constructed {
			return nil, ErrUnknownFilterType
		}
		sub := ber.NewBERDecoder(data)
		child, err := Decode(sub)
		if err != nil {
			return nil, err
		}
		return NewNot(child), nil

	case tagEquality, tagGreaterOrEqual, tagLessOrEqual, tagApproxMatch:
		sub := ber.NewBERDecoder(data)
		attr, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		value, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		switch tagNum {
		case tagEquality:
			return NewEquality(string(attr), value), nil
		case tagGreaterOrEqual:
			return NewGreaterOrEqual(string(attr), value), nil
		case tagLessOrEqual:
			return NewLessOrEqual(string(attr), value), nil
		default:
			return NewApproxMatch(string(attr), value), nil
		}

	case tagPresent:
		return NewPresent(string(data)), nil

	case tagSubstrings:
		sub := ber.NewBERDecoder(data)
		sf, err := decodeSubstring(sub)
		if err != nil {
			return nil, err
		}
		return NewSubstring(sf), nil

	case tagExtensibleMatch:
		sub := ber.NewBERDecoder(data)
		em, err := decodeExtensible(sub)
		if err != nil {
			return nil, err
		}
		return NewExtensible(em), nil

	default:
		return nil, ErrUnknownFilterType
	}
}

func decodeSubstring(dec *ber.BERDecoder) (*SubstringFilter, error) {
	attr, err := dec.ReadOctetString()
	if err != nil {
		return nil, err
	}
	sf := &SubstringFilter{Attribute: string(attr)}

	seqLen, err := dec.ExpectSequence()
	if err != nil {
		return nil, err
	}
	end := dec.Offset() + seqLen
	for dec.Offset() < end {
		tagNum, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, err
		}
		switch tagNum {
		case tagSubstringInitial:
			sf.Initial = value
		case tagSubstringAny:
			sf.Any = append(sf.Any, value)
		case tagSubstringFinal:
			sf.Final = value
		}
	}
	return sf, nil
}

func decodeExtensible(dec *ber.BERDecoder) (*ExtensibleMatch, error) {
	em := &ExtensibleMatch{}
	for dec.Remaining() > 0 {
		tagNum, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, err
		}
		switch tagNum {
		case tagExtMatchingRule:
			em.MatchingRule = string(value)
		case tagExtType:
			em.Type = string(value)
		case tagExtMatchValue:
			em.MatchValue = value
		case tagExtDNAttributes:
			em.DNAttributes = len(value) > 0 && value[0] != 0x00
		}
	}
	return em, nil
}
