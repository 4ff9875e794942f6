package filter

import "github.com/oba-ldap/ldapc/internal/ber"

// Filter CHOICE tag numbers (context-specific) per RFC 4511 section 4.5.1.
const (
	tagAnd             = 0 // [0] SET OF filter
	tagOr              = 1 // [1] SET OF filter
	tagNot             = 2 // [2] Filter
	tagEquality        = 3 // [3] AttributeValueAssertion
	tagSubstrings      = 4 // [4] SubstringFilter
	tagGreaterOrEqual  = 5 // [5] AttributeValueAssertion
	tagLessOrEqual     = 6 // [6] AttributeValueAssertion
	tagPresent         = 7 // [7] AttributeDescription
	tagApproxMatch     = 8 // [8] AttributeValueAssertion
	tagExtensibleMatch = 9 // [9] MatchingRuleAssertion
)

// Substring filter component tags.
const (
	tagSubstringInitial = 0
	tagSubstringAny     = 1
	tagSubstringFinal   = 2
)

// Extensible match component tags.
const (
	tagExtMatchingRule = 1
	tagExtType         = 2
	tagExtMatchValue   = 3
	tagExtDNAttributes = 4
)

// Encode writes f onto enc as the RFC 4511 Filter CHOICE.
func Encode(enc *ber.BEREncoder, f *Filter) error {
	switch f.Type {
	case And:
		return encodeSet(enc, tagAnd, f.Children)
	case Or:
		return encodeSet(enc, tagOr, f.Children)
	case Not:
		mark := enc.WriteContextTag(tagNot, true)
		if err := Encode(enc, f.Child); err != nil {
			return err
		}
		return enc.EndContextTag(mark)
	case Equality:
		return encodeAVA(enc, tagEquality, f.Attribute, f.Value)
	case GreaterOrEqual:
		return encodeAVA(enc, tagGreaterOrEqual, f.Attribute, f.Value)
	case LessOrEqual:
		return encodeAVA(enc, tagLessOrEqual, f.Attribute, f.Value)
	case ApproxMatch:
		return encodeAVA(enc, tagApproxMatch, f.Attribute, f.Value)
	case Present:
		return enc.WriteTaggedValue(tagPresent, false, []byte(f.Attribute))
	case Substring:
		return encodeSubstring(enc, f.Substring)
	case Extensible:
		return encodeExtensible(enc, f.Extensible)
	default:
		return ErrUnknownFilterType
	}
}

func encodeSet(enc *ber.BEREncoder, tag int, children []*Filter) error {
	mark := enc.WriteContextTag(tag, true)
	for _, child := range children {
		if err := Encode(enc, child); err != nil {
			return err
		}
	}
	return enc.EndContextTag(mark)
}

func encodeAVA(enc *ber.BEREncoder, tag int, attr string, value []byte) error {
	mark := enc.WriteContextTag(tag, true)
	if err := enc.WriteOctetString([]byte(attr)); err != nil {
		return err
	}
	if err := enc.WriteOctetString(value); err != nil {
		return err
	}
	return enc.EndContextTag(mark)
}

func encodeSubstring(enc *ber.BEREncoder, sf *SubstringFilter) error {
	mark := enc.WriteContextTag(tagSubstrings, true)
	if err := enc.WriteOctetString([]byte(sf.Attribute)); err != nil {
		return err
	}
	seq := enc.BeginSequence()
	if sf.Initial != nil {
		if err := enc.WriteTaggedValue(tagSubstringInitial, false, sf.Initial); err != nil {
			return err
		}
	}
	for _, any := range sf.Any {
		if err := enc.WriteTaggedValue(tagSubstringAny, false, any); err != nil {
			return err
		}
	}
	if sf.Final != nil {
		if err := enc.WriteTaggedValue(tagSubstringFinal, false, sf.Final); err != nil {
			return err
		}
	}
	if err := enc.EndSequence(seq); err != nil {
		return err
	}
	return enc.EndContextTag(mark)
}

func encodeExtensible(enc *ber.BEREncoder, em *ExtensibleMatch) error {
	mark := enc.WriteContextTag(tagExtensibleMatch, true)
	if em.MatchingRule != "" {
		if err := enc.WriteTaggedValue(tagExtMatchingRule, false, []byte(em.MatchingRule)); err != nil {
			return err
		}
	}
	if em.Type != "" {
		if err := enc.WriteTaggedValue(tagExtType, false, []byte(em.Type)); err != nil {
			return err
		}
	}
	if err := enc.WriteTaggedValue(tagExtMatchValue, false, em.MatchValue); err != nil {
		return err
	}
	if em.DNAttributes {
		dn := byte(0x00)
		if em.DNAttributes {
			dn = 0xFF
		}
		if err := enc.WriteTaggedValue(tagExtDNAttributes, false, []byte{dn}); err != nil {
			return err
		}
	}
	return enc.EndContextTag(mark)
}
