package render

// voidElements have no closing tag and no children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// inlineElements stay on one line in pretty output.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "button": true, "code": true,
	"em": true, "i": true, "label": true, "output": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true, "time": true,
}

// booleanAttrs are written without a value when set.
var booleanAttrs = map[string]bool{
	"autofocus": true, "checked": true, "disabled": true, "hidden": true,
	"multiple": true, "open": true, "readonly": true, "required": true,
	"selected": true,
}

func isVoidElement(tag string) bool   { return voidElements[tag] }
func isInlineElement(tag string) bool { return inlineElements[tag] }
func isBooleanAttr(name string) bool  { return booleanAttrs[name] }
