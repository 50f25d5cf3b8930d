package codeassist

import "github.com/musaed-ai/musaed/pkg/models"

var descriptions = map[models.Language]string{
	models.LangPython:     "بايثون لغة برمجة عالية المستوى تتميز بوضوح الصياغة وسهولة القراءة.",
	models.LangJavaScript: "جافاسكريبت لغة تعمل في المتصفح والخادم وتضيف التفاعل إلى صفحات الويب.",
	models.LangJava:       "جافا لغة كائنية التوجه تعمل على آلة جافا الافتراضية.",
	models.LangHTML:       "HTML لغة ترميز تصف بنية صفحة الويب ومحتواها.",
}

var debugResults = map[models.Language]string{
	models.LangPython:     "✅ لم يتم العثور على أخطاء واضحة. تأكد من المسافات البادئة وأسماء المتغيرات.",
	models.LangJavaScript: "✅ لم يتم العثور على أخطاء واضحة. تحقق من الفواصل المنقوطة واستخدام let و const.",
	models.LangJava:       "✅ لم يتم العثور على أخطاء واضحة. تأكد من تطابق اسم الصنف مع اسم الملف.",
	models.LangHTML:       "✅ لم يتم العثور على أخطاء واضحة. تأكد من إغلاق جميع الوسوم.",
}

var completions = map[models.Language]string{
	models.LangPython:     "\n    return result",
	models.LangJavaScript: "\n  return result;\n}",
	models.LangJava:       "\n        return result;\n    }\n}",
	models.LangHTML:       "\n  </body>\n</html>",
}
