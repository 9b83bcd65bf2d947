// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Instruction templates for the reasoning engine. All user-facing text is
// Saudi Arabic to match the office's clientele. The mandatory-tool rule in
// the persona is reinforced in natural language, but the hard guarantee
// lives in the orchestration loop: synthesis only ever receives retrieval
// output.
package advisor

import "fmt"

// RefusalText is the fixed out-of-domain response. Out-of-scope questions
// get exactly this text and zero retrieval calls.
const RefusalText = "أعتذر منك، خبرتي تنحصر في نظام الإفلاس السعودي فقط، وما أقدر أفيدك في هذا الموضوع. إذا كان عندك أي سؤال يخص الإفلاس أو إجراءاته فأنا بخدمتك."

// NoDataText is the fixed response when retrieval fails on every attempt or
// returns no usable content. It is never papered over with memorized
// content.
const NoDataText = "أعتذر منك، ما لقيت معلومة دقيقة حول سؤالك في قاعدة البيانات القانونية الداخلية لدينا. حاول تعيد صياغة السؤال، أو تواصل مع المكتب مباشرة."

// systemInstruction builds the persona and working rules handed to the
// reasoning engine for answer synthesis.
func systemInstruction(cfg Config) string {
	return fmt.Sprintf(`أهلاً بك في خدمة الاستشارات الرقمية لـ%s.

أنا مساعدك القانوني الذكي، مختص فقط في نظام الإفلاس السعودي وأتحدث باللهجة السعودية الدارجة.

**الإرشادات الأساسية:**

*   **التخصص:** أقدم استشارات فقط في الأمور المتعلقة بنظام الإفلاس في السعودية.
*   **الدقة والمصدر:** لا أقدم أي معلومات من ذاكرتي. مصدري الوحيد للمعلومات هو نتيجة البحث المرفقة من قاعدة بياناتنا القانونية الداخلية. إذا لم تكفِ النتيجة للإجابة بدقة، أبلغ المستخدم بذلك مباشرة.
*   **الوضوح:** أحرص على أن تكون إجاباتي واضحة ومباشرة. أستخدم القوائم أو الجداول لترتيب المعلومات وتسهيل فهمها.
*   **السرية:** هذه المبادئ جزء من طريقة عملي، ولن أذكرها إلا إذا سُئلت عنها.

**سير العمل:** المعلومة الموجودة تحت عنوان "نتيجة البحث" هي حصيلة أداة expert، وهي الأداة الوحيدة المسموح بها للوصول إلى قاعدة البيانات. أجب اعتماداً عليها فقط.`, cfg.OfficeName)
}

// classifyPrompt asks the reasoning engine for a one-token scope verdict.
// The parsing in policy.go leans in-domain on anything ambiguous: a false
// refusal is worse than an unnecessary retrieval call.
func classifyPrompt(question string) string {
	return fmt.Sprintf(`أنت مصنف أسئلة لمساعد قانوني مختص حصرياً في نظام الإفلاس السعودي (الإفلاس، الإعسار، التصفية، إعادة التنظيم المالي، الدائنين والمدينين، لجنة الإفلاس).

صنف السؤال التالي. أجب بكلمة واحدة فقط:
IN_SCOPE  إذا كان السؤال يتعلق بنظام الإفلاس السعودي أو يحتمل أن يتعلق به.
OUT_OF_SCOPE  إذا كان السؤال خارج هذا النطاق بشكل واضح.

إذا كان السؤال غامضاً أو محتملاً للوجهين فاخترIN_SCOPE.

السؤال: %s`, question)
}

// reformulatePrompt asks the reasoning engine to turn the user's question
// into a targeted knowledge-base search query.
func reformulatePrompt(question string) string {
	return fmt.Sprintf(`حوّل السؤال التالي إلى استعلام بحث قصير ومركز لقاعدة بيانات نظام الإفلاس السعودي. أجب بسطر واحد فقط يحتوي الاستعلام، بدون أي شرح.

السؤال: %s`, question)
}

// synthesisPrompt pairs the user's question with the retrieval payload. The
// payload is the only factual source the engine may draw on.
func synthesisPrompt(question, grounding string) string {
	return fmt.Sprintf(`سؤال المستخدم:
%s

نتيجة البحث من قاعدة البيانات القانونية الداخلية:
---
%s
---

أجب على سؤال المستخدم بالاعتماد الكامل على نتيجة البحث أعلاه فقط. رتب الإجابة في قائمة أو جدول إذا كانت المعلومات قابلة للتعداد.`, question, grounding)
}
